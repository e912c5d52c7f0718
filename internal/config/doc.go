// Package config loads and validates the application configuration
// from code defaults, an optional YAML file, and TAXI_-prefixed
// environment variables, in increasing order of precedence. It also
// owns the filesystem layout: every path the tools read or write comes
// from the Paths type.
package config
