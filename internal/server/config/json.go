package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/lightbox/internal/flagx"
	"github.com/dmitrijs2005/lightbox/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// both strings such as "168h" and integer nanoseconds. Fields left out of the
// file keep the value from the previous layer.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	LogLevel              string         `json:"log_level"`
	HealthCheckInterval   timex.Duration `json:"health_check_interval"`
	UploadBackend         string         `json:"upload_backend"`
	UploadDir             string         `json:"upload_dir"`
	UploadURLPrefix       string         `json:"upload_url_prefix"`
	MaxUploadSize         int64          `json:"max_upload_size"`
	RateLimitPerMinute    int            `json:"rate_limit_per_minute"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	S3PublicURL           string         `json:"s3_public_url"`
}

// parseJson loads the file named by -c/-config, if any, over config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	if c.HealthCheckInterval.Duration > 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	setString(&config.UploadBackend, c.UploadBackend)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.UploadURLPrefix, c.UploadURLPrefix)
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.RateLimitPerMinute > 0 {
		config.RateLimitPerMinute = c.RateLimitPerMinute
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
