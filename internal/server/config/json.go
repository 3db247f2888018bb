package config

import (
	"encoding/json"
	"os"

	"github.com/culvertcrawlers/fieldsurvey/internal/flagx"
	"github.com/culvertcrawlers/fieldsurvey/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations accept "5s" or
// integer nanoseconds.
type JsonConfig struct {
	HTTPAddr          string         `json:"http_addr"`
	GRPCAddr          string         `json:"grpc_addr"`
	DatabaseDSN       string         `json:"database_dsn"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	AllowedOrigins    []string       `json:"allowed_origins"`
	MaxUploadMB       int            `json:"max_upload_mb"`
	ReadinessInterval timex.Duration `json:"readiness_interval"`
	LogLevel          string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, over config.
// Keys absent from the file keep their current value. If the file cannot
// be read or contains invalid JSON, the function panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)

	// nothing to load
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&config.HTTPAddr:       c.HTTPAddr,
		&config.GRPCAddr:       c.GRPCAddr,
		&config.DatabaseDSN:    c.DatabaseDSN,
		&config.S3RootUser:     c.S3RootUser,
		&config.S3RootPassword: c.S3RootPassword,
		&config.S3Bucket:       c.S3Bucket,
		&config.S3Region:       c.S3Region,
		&config.S3BaseEndpoint: c.S3BaseEndpoint,
		&config.LogLevel:       c.LogLevel,
	} {
		if v != "" {
			*dst = v
		}
	}

	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.MaxUploadMB > 0 {
		config.MaxUploadMB = c.MaxUploadMB
	}
	if c.ReadinessInterval.Duration > 0 {
		config.ReadinessInterval = c.ReadinessInterval.Duration
	}
}
