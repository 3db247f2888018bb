package config

import (
	"encoding/json"
	"os"

	"github.com/culvertcrawlers/fieldsurvey/internal/flagx"
	"github.com/culvertcrawlers/fieldsurvey/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL         string         `json:"server_url"`
	HealthGRPCAddr    string         `json:"health_grpc_addr"`
	DatabasePath      string         `json:"database_path"`
	LinkCheckAddr     string         `json:"link_check_addr"`
	LinkCheckInterval timex.Duration `json:"link_check_interval"`
	ProbeAttempts     int            `json:"probe_attempts"`
	ProbeDelay        timex.Duration `json:"probe_delay"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	LogLevel          string         `json:"log_level"`
}

// parseJson overlays Config with the values present in the JSON file named
// by -c/-config. Keys left out of the file keep their current value.
// Read and decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.HealthGRPCAddr, jc.HealthGRPCAddr)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LinkCheckAddr, jc.LinkCheckAddr)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.LinkCheckInterval.Duration > 0 {
		cfg.LinkCheckInterval = jc.LinkCheckInterval.Duration
	}
	if jc.ProbeAttempts > 0 {
		cfg.ProbeAttempts = jc.ProbeAttempts
	}
	if jc.ProbeDelay.Duration > 0 {
		cfg.ProbeDelay = jc.ProbeDelay.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
