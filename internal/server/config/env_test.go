package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_ProcessEnvironment(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("LIGHTBOX_HTTP_ADDR", ":7070")
	t.Setenv("LIGHTBOX_TOKEN_VALIDITY", "1h")
	t.Setenv("LIGHTBOX_MAX_UPLOAD_SIZE", "4096")
	t.Setenv("LIGHTBOX_RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("LIGHTBOX_UPLOAD_BACKEND", "s3")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, int64(4096), cfg.MaxUploadSize)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, UploadBackendS3, cfg.UploadBackend)
	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
}

func TestParseEnv_DotenvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LIGHTBOX_S3_BUCKET=from-dotenv\nLIGHTBOX_SECRET_KEY=dotenv-secret\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("LIGHTBOX_S3_BUCKET")
		os.Unsetenv("LIGHTBOX_SECRET_KEY")
	})

	os.Args = []string{"testbin", "-env", path}

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "from-dotenv", cfg.S3Bucket)
	assert.Equal(t, "dotenv-secret", cfg.SecretKey)
}

func TestParseEnv_BadValuesPanic(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("LIGHTBOX_TOKEN_VALIDITY", "forever")
	require.Panics(t, func() { parseEnv(&Config{}) })
}

func TestParseEnv_MissingDotenvPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-env", filepath.Join(t.TempDir(), "absent.env")}

	require.Panics(t, func() { parseEnv(&Config{}) })
}
