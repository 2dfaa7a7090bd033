package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("SWM_TEST_STRING", "hello")
	t.Setenv("SWM_TEST_INT", "42")
	t.Setenv("SWM_TEST_BOOL", "true")
	t.Setenv("SWM_TEST_DURATION", "90s")

	assert.Equal(t, "hello", GetEnv("SWM_TEST_STRING", "default"))
	assert.Equal(t, 42, GetEnv("SWM_TEST_INT", 0))
	assert.True(t, GetEnv("SWM_TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, GetEnv("SWM_TEST_DURATION", time.Second))
	assert.Equal(t, "default", GetEnv("SWM_TEST_UNSET", "default"))
}

func TestGetEnv_panicsOnInvalidValue(t *testing.T) {
	t.Setenv("SWM_TEST_INT", "not-an-int")

	assert.Panics(t, func() {
		GetEnv("SWM_TEST_INT", 0)
	})
}
