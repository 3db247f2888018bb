package config

import (
	"net"
	"net/url"
	"os"
	"time"
)

// Config holds runtime settings for the field client.
type Config struct {
	ServerURL      string
	HealthGRPCAddr string
	DatabasePath   string
	// LinkCheckAddr is dialed to tell whether the device has a network link.
	// When empty the server's own address is dialed, so a server outage also
	// reads as a lost link.
	LinkCheckAddr     string
	LinkCheckInterval time.Duration
	ProbeAttempts     int
	ProbeDelay        time.Duration
	RequestTimeout    time.Duration
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.HealthGRPCAddr = ""
	c.DatabasePath = "data/fieldsurvey.db"
	c.LinkCheckAddr = ""
	c.LinkCheckInterval = 3 * time.Second
	c.ProbeAttempts = 5
	c.ProbeDelay = 3 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
}

// LinkCheckShared reports whether link checks fall back to the server
// address because LinkCheckAddr is unset.
func (c *Config) LinkCheckShared() bool {
	return c.LinkCheckAddr == ""
}

// LinkAddr returns the address dialed for link checks. Without an explicit
// setting it is the server's own host and port.
func (c *Config) LinkAddr() string {
	if !c.LinkCheckShared() {
		return c.LinkCheckAddr
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Hostname() == "" {
		return "127.0.0.1:5000"
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
