package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/engagement")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PUSH_WRITE_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "8081", cfg.RealtimePort)
	assert.Equal(t, 5*time.Minute, cfg.CommentTreeCacheTTL)
	assert.Equal(t, 3*time.Second, cfg.PushWriteTimeout)
	assert.Equal(t, 1024, cfg.PushQueueSize)
	assert.Equal(t, "vi", cfg.NotificationLocale)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_RequiresSecrets(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/engagement")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidate_PortsMustDiffer(t *testing.T) {
	cfg := &Config{DatabaseURL: "x", JWTSecret: "y", Port: "9000", RealtimePort: "9000"}
	assert.Error(t, cfg.Validate())
}

func TestNewRedisClient_DisabledWithoutURL(t *testing.T) {
	client, err := NewRedisClient(&Config{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		logger, err := NewLogger(&Config{Environment: env})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
