package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	Env = map[string]string{"APP_PORT": "4000"}
	defer func() { Env = nil }()

	assert.Equal(t, "4000", GetEnv("APP_PORT", "8080"))
	assert.Equal(t, "8080", GetEnv("MISSING_KEY", "8080"))

	// OS environment covers keys absent from the .env map.
	t.Setenv("DB_HOST", "127.0.0.1")
	assert.Equal(t, "127.0.0.1", GetEnv("DB_HOST", "db"))
}

func TestGetEnvInt(t *testing.T) {
	Env = map[string]string{
		"MIRROR_WORKERS": "4",
		"BAD_NUMBER":     "four",
	}
	defer func() { Env = nil }()

	assert.Equal(t, 4, GetEnvInt("MIRROR_WORKERS", 2))
	assert.Equal(t, 2, GetEnvInt("UNSET_NUMBER", 2))
	assert.Equal(t, 2, GetEnvInt("BAD_NUMBER", 2))
}

func TestIsDev(t *testing.T) {
	Env = map[string]string{"APP_ENV": "dev"}
	defer func() { Env = nil }()
	assert.True(t, IsDev())

	Env["APP_ENV"] = "prod"
	assert.False(t, IsDev())
}
