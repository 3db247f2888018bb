package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:5000", c.ServerURL)
	assert.Equal(t, 3*time.Second, c.LinkCheckInterval)
	assert.Equal(t, 5, c.ProbeAttempts)
	assert.Equal(t, 3*time.Second, c.ProbeDelay)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_NoArgsGivesDefaults(t *testing.T) {
	var want Config
	want.LoadDefaults()

	assert.Equal(t, &want, load(nil))
}

func TestLinkAddr(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit", Config{LinkCheckAddr: "1.1.1.1:53", ServerURL: "http://x:1"}, "1.1.1.1:53"},
		{"server with port", Config{ServerURL: "http://survey.local:5000"}, "survey.local:5000"},
		{"https default port", Config{ServerURL: "https://survey.example.org"}, "survey.example.org:443"},
		{"http default port", Config{ServerURL: "http://survey.example.org/base"}, "survey.example.org:80"},
		{"unparseable", Config{ServerURL: "::"}, "127.0.0.1:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.LinkAddr())
			assert.Equal(t, tt.cfg.LinkCheckAddr == "", tt.cfg.LinkCheckShared())
		})
	}
}

func TestLinkCheckShared_DefaultsToServerAddress(t *testing.T) {
	cfg := load(nil)
	assert.True(t, cfg.LinkCheckShared())
	assert.Equal(t, "127.0.0.1:5000", cfg.LinkAddr())

	cfg = load([]string{"-l", "1.1.1.1:53"})
	assert.False(t, cfg.LinkCheckShared())
	assert.Equal(t, "1.1.1.1:53", cfg.LinkAddr())
}
