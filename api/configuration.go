package api

import (
	"time"
)

type Configuration struct {
	Env                 string
	AppName             string
	AppVersion          string
	Host                string
	Port                string
	RequestLoggingLevel string
	DefaultTimeout      time.Duration
	MaxBodySize         int64
	CorsAllowOrigins    []string
}

const (
	DEFAULT_HOST          = "0.0.0.0"
	DEFAULT_TIMEOUT       = 10 * time.Second
	DEFAULT_MAX_BODY_SIZE = 1 << 20
)
