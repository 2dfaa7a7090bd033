package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type envVarType interface {
	string | int | bool | float64 | time.Duration
}

// GetEnv reads an environment variable and parses it into the type of the default value.
// It panics if the variable is set but cannot be parsed.
func GetEnv[T envVarType](envVarName string, defaultValue T) T {
	envValue, ok := os.LookupEnv(envVarName)
	if !ok || envValue == "" {
		return defaultValue
	}

	value, err := parseEnvValue[T](envValue)
	if err != nil {
		panic(fmt.Sprintf("Environment variable %s is not valid: %s", envVarName, err))
	}
	return value
}

func GetRequiredEnv[T envVarType](envVarName string) T {
	envValue, ok := os.LookupEnv(envVarName)
	if !ok || envValue == "" {
		log.Fatalf("%s environment variable is required", envVarName)
	}

	value, err := parseEnvValue[T](envValue)
	if err != nil {
		log.Fatalf("Environment variable %s is not valid: %s", envVarName, err)
	}
	return value
}

func parseEnvValue[T envVarType](envValue string) (T, error) {
	var value T
	var parsed any
	var err error

	switch any(value).(type) {
	case string:
		parsed = envValue
	case int:
		parsed, err = strconv.Atoi(envValue)
	case bool:
		parsed, err = strconv.ParseBool(envValue)
	case float64:
		parsed, err = strconv.ParseFloat(envValue, 64)
	case time.Duration:
		parsed, err = time.ParseDuration(envValue)
	default:
		return value, fmt.Errorf("unsupported type %T", value)
	}
	if err != nil {
		return value, err
	}
	return parsed.(T), nil
}
