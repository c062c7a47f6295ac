// Package config loads runtime configuration for the authportal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables AUTHPORTAL_*, falling back to a dotenv file
//     (-env path, or ./.env when present).
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// An empty LogLevel lets the logger pick: debug in dev mode, info otherwise.
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "api_prefix": "/api",
//	  "client_url": "http://localhost:3000",
//	  "request_timeout": "5s",
//	  "dev": false,
//	  "log_level": "debug",
//	  "database_path": "authportal.db",
//	  "refresh_on_start": true
//	}
package config
