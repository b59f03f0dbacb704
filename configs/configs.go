// Package configs embeds configuration files for use at runtime.
package configs

import (
	_ "embed"
)

// DefaultConfig contains the embedded default-config.toml content.
// It is decoded before the user's config file so every setting has a value
// even when no config file exists.
//
//go:embed default-config.toml
var DefaultConfig []byte
