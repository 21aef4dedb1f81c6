package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	EnvConfigDir = "RAH_CONFIG_DIR"
	EnvCacheDir  = "RAH_CACHE_DIR"
	EnvStateDir  = "RAH_STATE_DIR"
)

const (
	// AppName is the directory name used below every XDG base directory
	AppName = "rah"

	// ConfigFileName is the name of the configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "rah.log"

	// SystemConfigFile is the fallback configuration shared by all users
	SystemConfigFile = "/etc/rah/config.toml"
)

// Paths holds the resolved application directories
type Paths struct {
	configDir string
	cacheDir  string
	stateDir  string
}

// New resolves the application directories from the environment
func New() *Paths {
	return &Paths{
		configDir: dirFromEnv(EnvConfigDir, xdg.ConfigHome),
		cacheDir:  dirFromEnv(EnvCacheDir, xdg.CacheHome),
		stateDir:  dirFromEnv(EnvStateDir, xdg.StateHome),
	}
}

func dirFromEnv(env, base string) string {
	if dir := strings.TrimSpace(os.Getenv(env)); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(base, AppName)
}

// ConfigDir returns the configuration directory
func (p *Paths) ConfigDir() string { return p.configDir }

// CacheDir returns the cache directory
func (p *Paths) CacheDir() string { return p.cacheDir }

// StateDir returns the state directory
func (p *Paths) StateDir() string { return p.stateDir }

// ConfigFile returns the user's configuration file path
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// LogFile returns the log file path
func (p *Paths) LogFile() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// ConfigCandidates lists the configuration files to try, most specific
// first
func (p *Paths) ConfigCandidates() []string {
	return []string{p.ConfigFile(), SystemConfigFile}
}

// FindConfig returns the first existing configuration file, or "" if
// there is none
func (p *Paths) FindConfig() string {
	for _, c := range p.ConfigCandidates() {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
