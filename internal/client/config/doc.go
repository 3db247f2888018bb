// Package config loads runtime configuration for the survey field client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the survey server
//	-g string   host:port of the server's gRPC health service (optional)
//	-d string   path of the local SQLite database
//	-l string   host:port dialed to detect link state (default: server host)
//	-i int      link check interval (seconds)
//	-n int      reachability probe attempts
//	-w int      pause between probe attempts (milliseconds)
//	-t int      request timeout (seconds)
//	-v string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so "3s" and integer nanoseconds both work:
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "health_grpc_addr": "",
//	  "database_path": "data/fieldsurvey.db",
//	  "link_check_addr": "",
//	  "link_check_interval": "3s",
//	  "probe_attempts": 5,
//	  "probe_delay": "3s",
//	  "request_timeout": "15s",
//	  "log_level": "info"
//	}
package config
