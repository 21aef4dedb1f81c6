// Package sync implements the commands that consult the AUR: search, info
// and install planning.
package sync

import (
	"context"
	"sort"
	"strings"

	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/aur"
	"github.com/arthur-debert/rah/pkg/deptree"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
)

// MinQueryLength is the shortest search term the AUR accepts
const MinQueryLength = 2

// SearchOptions defines the options for Search
type SearchOptions struct {
	Client aur.Client
	// Local is used to flag installed results. It may be nil.
	Local *alpm.DB
	Terms []string
}

// SearchHit is one search result
type SearchHit struct {
	Record           aur.Record
	InstalledVersion string
}

// Installed reports whether a package of that name is installed
func (h SearchHit) Installed() bool { return h.InstalledVersion != "" }

// SearchResult lists hits ordered by name
type SearchResult struct {
	Hits []SearchHit
}

// Search queries the AUR with the longest term and keeps the packages
// whose name or description contains every term
func Search(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	log := logging.GetLogger("commands.sync")
	log.Debug().Str("command", "Search").Strs("terms", opts.Terms).Msg("Executing command")

	if len(opts.Terms) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no search terms given")
	}
	query := ""
	for _, t := range opts.Terms {
		if len(t) > len(query) {
			query = t
		}
	}
	if len(query) < MinQueryLength {
		return nil, errors.Newf(errors.ErrInvalidInput, "search term %q is too short", query)
	}

	records, err := opts.Client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{}
	for _, r := range records {
		if !matchesAll(r, opts.Terms) {
			continue
		}
		hit := SearchHit{Record: r}
		if opts.Local != nil {
			if p := opts.Local.Packages().Find(r.Name); p != nil {
				hit.InstalledVersion = p.Version
			}
		}
		result.Hits = append(result.Hits, hit)
	}
	sort.Slice(result.Hits, func(i, j int) bool {
		return result.Hits[i].Record.Name < result.Hits[j].Record.Name
	})

	log.Info().Str("command", "Search").Int("hits", len(result.Hits)).Msg("Command finished")
	return result, nil
}

func matchesAll(r aur.Record, terms []string) bool {
	name := strings.ToLower(r.Name)
	desc := strings.ToLower(r.Description)
	for _, t := range terms {
		t = strings.ToLower(t)
		if !strings.Contains(name, t) && !strings.Contains(desc, t) {
			return false
		}
	}
	return true
}

// InfoResult holds the records in request order and the names the AUR
// does not know
type InfoResult struct {
	Records []aur.Record
	Missing []string
}

// Info fetches full AUR records. Unknown names make it return ErrNotFound
// along with the records that were found.
func Info(ctx context.Context, client aur.Client, names []string) (*InfoResult, error) {
	log := logging.GetLogger("commands.sync")
	log.Debug().Str("command", "Info").Strs("names", names).Msg("Executing command")

	if len(names) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no packages specified")
	}

	records, err := client.Info(ctx, names)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]aur.Record, len(records))
	for _, r := range records {
		byName[r.Name] = r
	}

	result := &InfoResult{}
	for _, n := range names {
		if r, ok := byName[n]; ok {
			result.Records = append(result.Records, r)
		} else {
			result.Missing = append(result.Missing, n)
		}
	}

	if len(result.Missing) > 0 {
		return result, errors.Newf(errors.ErrNotFound, "not found in the AUR: %s", strings.Join(result.Missing, ", ")).
			WithDetail("packages", result.Missing)
	}
	return result, nil
}

// Builder resolves targets into a dependency forest. *deptree.Resolver
// implements it.
type Builder interface {
	Build(ctx context.Context, targets []string) (*deptree.Forest, error)
}

// PlanOptions defines the options for Plan
type PlanOptions struct {
	Resolver Builder
	Targets  []string
}

// PlanResult is a resolved forest and the install order derived from it
type PlanResult struct {
	Forest *deptree.Forest
	Plan   *deptree.Plan
}

// Plan resolves the targets. When some dependencies cannot be resolved the
// result is still returned, together with the *deptree.ResolutionError.
func Plan(ctx context.Context, opts PlanOptions) (*PlanResult, error) {
	log := logging.GetLogger("commands.sync")
	log.Debug().Str("command", "Plan").Strs("targets", opts.Targets).Msg("Executing command")

	forest, err := opts.Resolver.Build(ctx, opts.Targets)
	if forest == nil {
		return nil, err
	}

	result := &PlanResult{Forest: forest, Plan: forest.Plan()}
	log.Info().
		Str("command", "Plan").
		Int("repo", len(result.Plan.Repo)).
		Int("aur", len(result.Plan.AUR)).
		Bool("complete", err == nil).
		Msg("Command finished")
	return result, err
}
