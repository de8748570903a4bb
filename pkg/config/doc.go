// Package config loads environment-driven configuration structs.
//
// Every component of the service declares its own Config struct with `env`
// tags and defaults; this package parses them from the process environment
// (optionally seeded from a .env file) and caches each type so repeated
// loads across packages observe identical values.
//
//	var httpCfg httpserver.Config
//	config.MustLoad(&httpCfg)
package config
