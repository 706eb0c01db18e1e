// Package config loads runtime configuration for the protodesk shell.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables (PD_*), after loading a dotenv file given with
//     -e/-env or ./.env if present.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string    API base URL
//	-t duration  request timeout
//	-p int       list page size
//	-d string    local SQLite database path
//	-l string    log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://prototypes.example.edu/api/",
//	  "request_timeout": "15s",
//	  "page_size": 20,
//	  "database_path": "/var/lib/protodesk/session.db",
//	  "export_dir": "exports",
//	  "policy_file": "policy.csv",
//	  "log_level": "debug",
//	  "s3": {"bucket": "exports", "region": "eu-north-1", "endpoint": "http://127.0.0.1:9000"},
//	  "nats_url": "nats://127.0.0.1:4222"
//	}
//
// Malformed values in any source make LoadConfig panic; the shell cannot
// start with a half-applied configuration.
package config
