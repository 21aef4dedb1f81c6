// Package session opens everything a command needs from the loaded
// configuration: the pacman databases, the AUR client and the resolver.
package session

import (
	"os/exec"

	"github.com/arthur-debert/rah/internal/version"
	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/aur"
	"github.com/arthur-debert/rah/pkg/config"
	"github.com/arthur-debert/rah/pkg/deptree"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
	"github.com/arthur-debert/rah/pkg/pacman"
	"github.com/rs/zerolog"
)

// Session bundles the collaborators shared by all commands of one
// invocation
type Session struct {
	Config *config.Config
	DB     *alpm.Handle
	AUR    aur.Client

	// Warnings collects degraded but non-fatal conditions, such as a sync
	// repository that could not be read
	Warnings []error

	runner pacman.Runner
	logger zerolog.Logger
}

// Option customizes Open
type Option func(*Session)

// WithAURClient replaces the HTTP AUR client
func WithAURClient(c aur.Client) Option {
	return func(s *Session) { s.AUR = c }
}

// WithRunner replaces the runner used for pacman invocations
func WithRunner(r pacman.Runner) Option {
	return func(s *Session) { s.runner = r }
}

// Open loads the local database and every configured sync repository.
// An unreadable sync repository is recorded as a warning; only a missing
// local database or the loss of every sync repository is fatal.
func Open(cfg *config.Config, opts ...Option) (*Session, error) {
	s := &Session{
		Config: cfg,
		runner: pacman.ExecRunner{},
		logger: logging.GetLogger("session"),
	}
	for _, o := range opts {
		o(s)
	}

	h, err := alpm.Open(cfg.Root, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	s.DB = h

	level := cfg.SigLevel()
	for _, repo := range cfg.Repos.Sync {
		if _, err := h.RegisterSyncDB(repo, level); err != nil {
			s.logger.Warn().Err(err).Str("repo", repo).Msg("Sync repository unavailable")
			s.Warnings = append(s.Warnings, err)
		}
	}
	if len(h.SyncDBs()) == 0 {
		return nil, errors.Newf(errors.ErrDatabase, "none of the configured sync repositories could be read from %s", cfg.DBPath).
			WithDetail("repos", cfg.Repos.Sync)
	}

	if s.AUR == nil {
		s.AUR = NewAURClient(cfg)
	}

	s.logger.Debug().
		Int("syncRepos", len(h.SyncDBs())).
		Int("installed", len(h.LocalDB().Packages())).
		Msg("Session opened")
	return s, nil
}

// NewAURClient builds the RPC client described by the aur section of cfg
func NewAURClient(cfg *config.Config) *aur.RPCClient {
	return aur.NewRPCClient(aur.Options{
		BaseURL:           cfg.AUR.URL,
		Timeout:           cfg.AUR.Timeout,
		RequestsPerSecond: cfg.AUR.RequestsPerSecond,
		Burst:             cfg.AUR.Burst,
		MaxRetries:        cfg.AUR.MaxRetries,
		BatchSize:         cfg.AUR.BatchSize,
		UserAgent:         "rah/" + version.Version,
	})
}

// Checker returns the pacman -T checker, or nil when it is disabled or
// pacman is not installed
func (s *Session) Checker() *pacman.Checker {
	if !s.Config.Resolve.UsePacmanCheck {
		return nil
	}
	binary := s.Config.Resolve.PacmanBin
	if binary == "" {
		binary = pacman.DefaultBinary
	}
	if _, ok := s.runner.(pacman.ExecRunner); ok {
		if _, err := exec.LookPath(binary); err != nil {
			s.logger.Warn().Str("binary", binary).Msg("pacman not found, checking dependencies against the local database")
			return nil
		}
	}
	return pacman.NewChecker(s.runner).WithBinary(binary)
}

// Resolver builds a dependency resolver from the session's configuration
func (s *Session) Resolver() *deptree.Resolver {
	opts := deptree.Options{
		IncludeCheckDepends: s.Config.Resolve.IncludeCheckDepends,
		IncludeOptional:     s.Config.Resolve.IncludeOptional,
		MaxConcurrency:      s.Config.AUR.MaxConcurrency,
	}
	if c := s.Checker(); c != nil {
		opts.LocalChecker = c
	}
	return deptree.NewResolver(s.DB, s.AUR, opts)
}
