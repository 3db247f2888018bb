package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "https://survey.example.org", "-g", "survey.example.org:9090", "-d", "/tmp/s.db",
				"-l", "8.8.8.8:53", "-i", "10", "-n", "7", "-w", "500", "-t", "30", "-v", "debug"},
			expected: &Config{
				ServerURL:         "https://survey.example.org",
				HealthGRPCAddr:    "survey.example.org:9090",
				DatabasePath:      "/tmp/s.db",
				LinkCheckAddr:     "8.8.8.8:53",
				LinkCheckInterval: 10 * time.Second,
				ProbeAttempts:     7,
				ProbeDelay:        500 * time.Millisecond,
				RequestTimeout:    30 * time.Second,
				LogLevel:          "debug",
			},
		},
		{
			name:     "unknown flags ignored",
			args:     []string{"-x", "1", "-c", "cfg.json", "-n", "2"},
			expected: func() *Config { c := &Config{}; c.LoadDefaults(); c.ProbeAttempts = 2; return c }(),
		},
		{name: "bad interval", args: []string{"-i", "abc"}, expectPanic: true},
		{name: "bad attempts", args: []string{"-n", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.LoadDefaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
