// Package query implements the read-only queries against the local
// package database.
package query

import (
	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
)

// Options selects what to query
type Options struct {
	// Local is the database of installed packages
	Local *alpm.DB
	// Args are package names, or regular expressions for Search
	Args []string
}

// Result holds the matched packages in name order. Missing lists the
// requested names that are not installed.
type Result struct {
	Packages alpm.PackageList
	Missing  []string
}

// Search returns installed packages whose name or description matches every
// pattern. Without patterns every installed package matches.
func Search(opts Options) (*Result, error) {
	log := logging.GetLogger("commands.query")
	log.Debug().Str("command", "Search").Strs("patterns", opts.Args).Msg("Executing command")

	pkgs, err := opts.Local.Packages().Search(opts.Args)
	if err != nil {
		return nil, err
	}

	log.Info().Str("command", "Search").Int("matches", len(pkgs)).Msg("Command finished")
	return &Result{Packages: pkgs}, nil
}

// List returns the named installed packages, or all of them when no name is
// given. Names that are not installed make List return ErrNotFound along
// with the packages that were found.
func List(opts Options) (*Result, error) {
	log := logging.GetLogger("commands.query")
	log.Debug().Str("command", "List").Strs("names", opts.Args).Msg("Executing command")

	all := opts.Local.Packages()
	if len(opts.Args) == 0 {
		return &Result{Packages: all}, nil
	}

	result := &Result{}
	for _, name := range opts.Args {
		if p := all.Find(name); p != nil {
			result.Packages = append(result.Packages, p)
		} else {
			result.Missing = append(result.Missing, name)
		}
	}

	log.Info().Str("command", "List").Int("found", len(result.Packages)).Int("missing", len(result.Missing)).Msg("Command finished")
	if len(result.Missing) > 0 {
		return result, notFound(result.Missing)
	}
	return result, nil
}

// Info is List for a detailed view: at least one name is required
func Info(opts Options) (*Result, error) {
	if len(opts.Args) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no packages specified")
	}
	return List(opts)
}

func notFound(names []string) error {
	err := errors.Newf(errors.ErrNotFound, "package '%s' was not found", names[0])
	if len(names) > 1 {
		err = errors.Newf(errors.ErrNotFound, "%d packages were not found", len(names))
	}
	return err.WithDetail("packages", names)
}
