package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LISTEN_ADDR", "DATABASE_PATH", "SESSION_SECRET", "SESSION_TTL", "GIN_MODE", "UPLOAD_DIR", "UPLOAD_URL_PATH", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}
	chdir(t, t.TempDir())

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "postboard.db", cfg.DatabasePath)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "/post-images", cfg.UploadURLPath)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", " 8081 ")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SEED_USER_EMAIL", "admin@example.com")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, ":8081", cfg.ListenAddr)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "admin@example.com", cfg.SeedUserEmail)
}

func TestLoadIgnoresInvalidTTL(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SESSION_TTL", "soon")

	assert.Equal(t, time.Hour, Load().SessionTTL)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
