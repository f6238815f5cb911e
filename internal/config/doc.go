// Package config defines the runtime configuration for the service,
// parsed from environment variables with serve-command flag overrides
// applied on top.
package config
