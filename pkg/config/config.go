package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/errors"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the effective configuration
type Config struct {
	Root      string          `koanf:"root"`
	DBPath    string          `koanf:"db_path"`
	CachePath string          `koanf:"cache_path"`
	Color     string          `koanf:"color"`
	Pager     string          `koanf:"pager"`
	Repos     ReposConfig     `koanf:"repos"`
	AUR       AURConfig       `koanf:"aur"`
	Resolve   ResolveConfig   `koanf:"resolve"`
	Preflight PreflightConfig `koanf:"preflight"`

	// Source is the configuration file that was loaded, if any
	Source string `koanf:"-"`

	raw map[string]interface{}
}

// ReposConfig lists the sync repositories
type ReposConfig struct {
	Sync     []string `koanf:"sync"`
	SigLevel string   `koanf:"sig_level"`
}

// AURConfig tunes the AUR client
type AURConfig struct {
	URL               string        `koanf:"url"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxConcurrency    int           `koanf:"max_concurrency"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	BatchSize         int           `koanf:"batch_size"`
}

// ResolveConfig tunes dependency resolution
type ResolveConfig struct {
	IncludeCheckDepends bool   `koanf:"include_check_depends"`
	IncludeOptional     bool   `koanf:"include_optional"`
	UsePacmanCheck      bool   `koanf:"use_pacman_check"`
	PacmanBin           string `koanf:"pacman_bin"`
}

// PreflightConfig selects the checks run before any command touching the
// system
type PreflightConfig struct {
	RequireRoot bool `koanf:"require_root"`
	CheckOS     bool `koanf:"check_os"`
}

// SigLevel returns the parsed repository signature level
func (c *Config) SigLevel() alpm.SigLevel {
	level, err := alpm.ParseSigLevel(c.Repos.SigLevel)
	if err != nil {
		return alpm.SigLevelDefault
	}
	return level
}

// Validate checks values the type system cannot
func (c *Config) Validate() error {
	invalid := func(key, format string, args ...interface{}) error {
		return errors.Newf(errors.ErrConfigValid, "%s: "+format, append([]interface{}{key}, args...)...).
			WithDetail("key", key)
	}

	if strings.TrimSpace(c.DBPath) == "" {
		return invalid("db_path", "must not be empty")
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return invalid("color", "must be auto, always or never, got %q", c.Color)
	}

	if len(c.Repos.Sync) == 0 {
		return invalid("repos.sync", "at least one sync repository is required")
	}
	seen := make(map[string]bool)
	for _, r := range c.Repos.Sync {
		if r == "" || strings.ContainsAny(r, "/ \t") {
			return invalid("repos.sync", "invalid repository name %q", r)
		}
		if seen[r] {
			return invalid("repos.sync", "repository %q listed twice", r)
		}
		seen[r] = true
	}
	if _, err := alpm.ParseSigLevel(c.Repos.SigLevel); err != nil {
		return invalid("repos.sig_level", "%v", err)
	}

	u, err := url.Parse(c.AUR.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("aur.url", "must be an http(s) URL, got %q", c.AUR.URL)
	}
	if c.AUR.Timeout <= 0 {
		return invalid("aur.timeout", "must be positive")
	}
	if c.AUR.MaxConcurrency < 1 {
		return invalid("aur.max_concurrency", "must be at least 1")
	}
	if c.AUR.RequestsPerSecond <= 0 {
		return invalid("aur.requests_per_second", "must be positive")
	}
	if c.AUR.Burst < 1 {
		return invalid("aur.burst", "must be at least 1")
	}
	if c.AUR.MaxRetries < 0 {
		return invalid("aur.max_retries", "must not be negative")
	}
	if c.AUR.BatchSize < 1 {
		return invalid("aur.batch_size", "must be at least 1")
	}
	return nil
}
