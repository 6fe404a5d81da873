// Package config loads runtime configuration for the campus terminal client.
//
// Sources & precedence (later wins):
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present.
//  3. Optional JSON file selected with -c or -config.
//  4. CAMPUS_* environment variables.
//  5. Command-line flags.
//
// The result is validated before it is returned.
//
// Supported flags
//
//	-a string   backend base URL, overrides the platform-derived one
//	-p string   platform: android-emulator, ios-simulator, device, web
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-s string   path of the secure store database
//
// # JSON schema
//
// Durations are strings like "10s" or integer nanoseconds. Absent keys keep
// the previous value:
//
//	{
//	  "api_url": "https://campus.example.cl/api",
//	  "platform": "device",
//	  "lan_host": "192.168.1.20",
//	  "api_port": 8080,
//	  "request_timeout": "10s",
//	  "store_path": "/home/ana/.config/campus/store.db",
//	  "online_check_interval": "5s",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "expire_on_unauthorized": true
//	}
package config
