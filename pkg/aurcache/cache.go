// Package aurcache deduplicates AUR lookups within one resolution run.
//
// Every distinct name is sent to the AUR at most once. Names known up front
// are batched into a single info request with Prefetch; callers asking for
// a name whose lookup is already in flight wait for that lookup instead of
// issuing their own. When a name has no exact AUR match the cache falls
// back to a provides search, again at most once per name.
package aurcache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/arthur-debert/rah/pkg/aur"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Fetcher is the part of the AUR client the cache needs
type Fetcher interface {
	Info(ctx context.Context, names []string) ([]aur.Record, error)
	SearchByProvides(ctx context.Context, name string) ([]aur.Record, error)
}

// Result is the outcome of looking a name up in the AUR
type Result struct {
	// Record is the package with exactly the requested name, if any
	Record *aur.Record
	// Providers lists the packages providing the name when there is no
	// exact match. It may hold zero, one or several candidates.
	Providers []aur.Record
	// Err is set when the lookup itself failed
	Err error
}

// Found reports whether the lookup produced at least one candidate
func (r Result) Found() bool {
	return r.Err == nil && (r.Record != nil || len(r.Providers) > 0)
}

// Stats counts the network calls issued through a cache
type Stats struct {
	InfoCalls     int64
	InfoNames     int64
	ProvidesCalls int64
}

type infoEntry struct {
	done   chan struct{}
	record *aur.Record
	err    error
}

type providesEntry struct {
	records []aur.Record
	err     error
}

// Cache memoizes AUR lookups for the lifetime of one run
type Cache struct {
	client Fetcher
	logger zerolog.Logger

	mu       sync.Mutex
	info     map[string]*infoEntry
	provides map[string]providesEntry
	group    singleflight.Group

	infoCalls     atomic.Int64
	infoNames     atomic.Int64
	providesCalls atomic.Int64
}

// New creates an empty cache in front of client
func New(client Fetcher) *Cache {
	return &Cache{
		client:   client,
		logger:   logging.GetLogger("aurcache"),
		info:     make(map[string]*infoEntry),
		provides: make(map[string]providesEntry),
	}
}

// Prefetch looks up all names not yet known or in flight with one batched
// info call. Names already cached or being fetched are skipped.
func (c *Cache) Prefetch(ctx context.Context, names []string) {
	c.mu.Lock()
	var missing []string
	entries := make(map[string]*infoEntry)
	for _, name := range names {
		if _, ok := c.info[name]; ok {
			continue
		}
		if _, ok := entries[name]; ok {
			continue
		}
		e := &infoEntry{done: make(chan struct{})}
		c.info[name] = e
		entries[name] = e
		missing = append(missing, name)
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return
	}

	c.infoCalls.Add(1)
	c.infoNames.Add(int64(len(missing)))
	c.logger.Debug().Strs("names", missing).Msg("Fetching AUR info")

	records, err := c.client.Info(ctx, missing)
	byName := make(map[string]*aur.Record, len(records))
	for i := range records {
		byName[records[i].Name] = &records[i]
	}
	for _, name := range missing {
		e := entries[name]
		if err != nil {
			e.err = err
		} else {
			e.record = byName[name]
		}
		close(e.done)
	}
}

// Info returns the exact-name record for name, fetching it if needed. A
// nil record with a nil error means the AUR has no package of that name.
func (c *Cache) Info(ctx context.Context, name string) (*aur.Record, error) {
	c.Prefetch(ctx, []string{name})

	c.mu.Lock()
	e := c.info[name]
	c.mu.Unlock()

	select {
	case <-e.done:
		return e.record, e.err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrCancelled, "AUR lookup cancelled")
	}
}

// Providers returns the AUR packages providing name. Concurrent callers
// for the same name share one search.
func (c *Cache) Providers(ctx context.Context, name string) ([]aur.Record, error) {
	c.mu.Lock()
	if p, ok := c.provides[name]; ok {
		c.mu.Unlock()
		return p.records, p.err
	}
	c.mu.Unlock()

	ch := c.group.DoChan(name, func() (interface{}, error) {
		c.mu.Lock()
		if p, ok := c.provides[name]; ok {
			c.mu.Unlock()
			return p.records, p.err
		}
		c.mu.Unlock()

		c.providesCalls.Add(1)
		c.logger.Debug().Str("name", name).Msg("Searching AUR providers")
		records, err := c.client.SearchByProvides(ctx, name)

		c.mu.Lock()
		c.provides[name] = providesEntry{records: records, err: err}
		c.mu.Unlock()
		return records, err
	})

	select {
	case res := <-ch:
		records, _ := res.Val.([]aur.Record)
		return records, res.Err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrCancelled, "AUR lookup cancelled")
	}
}

// GetOrFetch resolves name against the AUR: an exact info match first,
// a provides search otherwise.
func (c *Cache) GetOrFetch(ctx context.Context, name string) Result {
	record, err := c.Info(ctx, name)
	if err != nil {
		return Result{Err: err}
	}
	if record != nil {
		return Result{Record: record}
	}

	providers, err := c.Providers(ctx, name)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Providers: providers}
}

// Stats returns the number of network calls issued so far
func (c *Cache) Stats() Stats {
	return Stats{
		InfoCalls:     c.infoCalls.Load(),
		InfoNames:     c.infoNames.Load(),
		ProvidesCalls: c.providesCalls.Load(),
	}
}
