// Package config loads runtime configuration for the SalesDesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. SALESDESK_* environment variables, read through viper.
//  4. Command-line flags.
//
// Supported flags
//
//	-u string   backend API base URL
//	-s string   path of the local state database
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "base_url": "https://app.example.com/api",
//	  "state_path": "/home/ann/.salesdesk/state.db",
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "log_backend": "zerolog",
//	  "clear_workspace_on_logout": true
//	}
//
// Environment variables use the same keys, upper-cased with the
// SALESDESK_ prefix (SALESDESK_BASE_URL, SALESDESK_REQUEST_TIMEOUT=45s, ...).
package config
