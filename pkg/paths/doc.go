// Package paths locates rah's own files.
//
// Directories follow the XDG Base Directory specification through
// github.com/adrg/xdg. Each one can be overridden with an environment
// variable:
//
//   - RAH_CONFIG_DIR: configuration (default: $XDG_CONFIG_HOME/rah)
//   - RAH_CACHE_DIR: downloaded package builds (default: $XDG_CACHE_HOME/rah)
//   - RAH_STATE_DIR: logs (default: $XDG_STATE_HOME/rah)
//
// The system-wide configuration file /etc/rah/config.toml is consulted
// when the user has none.
package paths
