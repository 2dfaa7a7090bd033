package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://swm.example.org", "http://localhost:3000"},
		splitList(" https://swm.example.org, ,http://localhost:3000"))
	assert.Empty(t, splitList(""))
}

func TestServerConfig_Validate(t *testing.T) {
	assert.NoError(t, ServerConfig{jwtSigningKey: "k", changeRequestRetention: time.Hour}.Validate())
	assert.Error(t, ServerConfig{changeRequestRetention: time.Hour}.Validate())
	assert.Error(t, ServerConfig{jwtSigningKey: "k"}.Validate())
}

func TestApiConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DEFAULT_TIMEOUT", "30s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://swm.example.org")

	conf := apiConfigFromEnv(CompiledConfig{Version: "v1.2.0"})
	assert.Equal(t, "8080", conf.Port)
	assert.Equal(t, "0.0.0.0", conf.Host)
	assert.Equal(t, 30*time.Second, conf.DefaultTimeout)
	assert.Equal(t, []string{"https://swm.example.org"}, conf.CorsAllowOrigins)
	assert.Equal(t, "v1.2.0", conf.AppVersion)
	assert.Equal(t, "development", conf.Env)
}
