package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/lightbox/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "LIGHTBOX_"

// parseEnv overlays Config with LIGHTBOX_* environment variables.
//
// When -env points to a dotenv file it must load, otherwise parseEnv panics.
// Without -env a ".env" file in the working directory is loaded if present.
// godotenv never overrides variables already set in the process environment.
func parseEnv(config *Config) {
	if path := flagx.EnvFile(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.TokenValidityDuration, "TOKEN_VALIDITY")
	envString(&config.LogLevel, "LOG_LEVEL")
	envDuration(&config.HealthCheckInterval, "HEALTH_CHECK_INTERVAL")

	envString(&config.UploadBackend, "UPLOAD_BACKEND")
	envString(&config.UploadDir, "UPLOAD_DIR")
	envString(&config.UploadURLPrefix, "UPLOAD_URL_PREFIX")
	envInt64(&config.MaxUploadSize, "MAX_UPLOAD_SIZE")
	envInt(&config.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")

	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.S3PublicURL, "S3_PUBLIC_URL")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func envInt64(dst *int64, key string) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envInt(dst *int, key string) {
	n := int64(*dst)
	envInt64(&n, key)
	*dst = int(n)
}
