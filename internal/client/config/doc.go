// Package config loads runtime configuration for the LoveOps CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the sync server; empty disables sync
//	-i int      online status check interval (seconds)
//	-d string   path of the local SQLite database
//	-s int      auto push debounce window (milliseconds)
//	-l string   log file path
//	-o string   directory for exports and backups
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds. Only keys present in the file are applied:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "db_path": "loveops.db",
//	  "sync_debounce": "1500ms",
//	  "sync_retry_delay": "2s",
//	  "log_file": "loveops.log",
//	  "log_level": "info",
//	  "export_dir": "exports"
//	}
package config
