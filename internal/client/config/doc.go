// Package config loads runtime configuration for the notekeeper CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   address of the notekeeper HTTP API (host:port or URL)
//	-t int      request timeout in seconds
//
// The JSON file accepts durations as "5s" strings or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:8080",
//	  "request_timeout": "5s"
//	}
package config
