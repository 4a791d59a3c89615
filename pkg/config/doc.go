// Package config loads typed configuration structs from environment
// variables (github.com/caarlos0/env tags) with .env autoloading for local
// development. Each configuration type is parsed once per process and cached.
package config
