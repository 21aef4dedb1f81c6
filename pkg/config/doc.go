// Package config loads rah's layered configuration.
//
// Layers, lowest precedence first: the embedded defaults, one TOML file
// (given explicitly, or the first of $XDG_CONFIG_HOME/rah/config.toml and
// /etc/rah/config.toml), RAH_SECTION__KEY environment variables, and
// finally overrides from command line flags.
package config
