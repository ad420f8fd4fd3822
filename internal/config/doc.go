// Package config loads the reminders-mcp server configuration.
//
// Settings are resolved in layers: built-in defaults, an optional YAML or
// TOML file, environment variables, and finally command-line flags (applied
// by the cmd package for flags the user set explicitly).
//
// Example file (reminders-mcp.yaml):
//
//	transport: streamable-http
//	http_addr: 127.0.0.1:8080
//	read_only: true
//	timeout: 45s
//	metrics:
//	  enabled: true
//	  addr: 127.0.0.1:9090
package config
