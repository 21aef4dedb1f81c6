package pacman

import (
	"context"
	"strings"

	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
	"github.com/rs/zerolog"
)

// Exit codes of "pacman -T"
const (
	ExitSatisfied   = 0
	ExitUnsatisfied = 127
)

// DefaultBinary is the package manager executable
const DefaultBinary = "pacman"

// Checker asks pacman which dependency strings are not satisfied by the
// installed packages
type Checker struct {
	runner Runner
	binary string
	logger zerolog.Logger
}

// NewChecker creates a checker. A nil runner uses ExecRunner.
func NewChecker(runner Runner) *Checker {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Checker{
		runner: runner,
		binary: DefaultBinary,
		logger: logging.GetLogger("pacman"),
	}
}

// WithBinary overrides the executable used for the check
func (c *Checker) WithBinary(binary string) *Checker {
	c.binary = binary
	return c
}

// CheckDeps runs "pacman -T" on deps and returns the ones pacman reports
// as unmet, in pacman's output order. An empty result means every
// dependency is satisfied.
func (c *Checker) CheckDeps(ctx context.Context, deps []string) ([]string, error) {
	if len(deps) == 0 {
		return nil, nil
	}

	args := append([]string{"-T"}, deps...)
	stdout, stderr, code, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDepsCheck, "cannot run %s", c.binary)
	}

	switch code {
	case ExitSatisfied:
		c.logger.Trace().Strs("deps", deps).Msg("All dependencies satisfied")
		return nil, nil
	case ExitUnsatisfied:
		unmet := parseUnmet(stdout)
		c.logger.Trace().Strs("deps", deps).Strs("unmet", unmet).Msg("Unmet dependencies")
		return unmet, nil
	case -1:
		return nil, errors.Newf(errors.ErrDepsCheck, "%s did not exit or was killed by a signal", c.binary)
	default:
		return nil, errors.Newf(errors.ErrDepsCheck, "%s returned a fatal error: %s",
			c.binary, strings.TrimSpace(string(stderr))).
			WithDetail("exit_code", code)
	}
}

func parseUnmet(stdout []byte) []string {
	var unmet []string
	for _, line := range strings.Split(string(stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			unmet = append(unmet, line)
		}
	}
	return unmet
}
