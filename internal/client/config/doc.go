// Package config loads runtime configuration for the KTech Hub client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. YAML when the name
//     ends in .yaml/.yml, JSON otherwise.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string    API base URL
//	-t int       request timeout (seconds)
//	-d string    data directory
//	-s string    store backend: sqlite | bolt | file | redis | memory
//	-dsn string  store location for the backend
//	-l string    log level: debug | info | warn | error
//
// # File schema
//
//	{
//	  "api_base_url": "https://syllabus.ktech.edu.kw/api/v1/app",
//	  "request_timeout": "15s",
//	  "data_dir": ".ktechhub",
//	  "store_backend": "bolt",
//	  "log_level": "debug",
//	  "challenge_attempts": 3
//	}
//
// Environment variables are not consulted.
package config
