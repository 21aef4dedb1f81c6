package deptree_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/aur"
	"github.com/arthur-debert/rah/pkg/depspec"
)

func pkg(name, version string, depends ...string) *alpm.Package {
	return &alpm.Package{Name: name, Version: version, Depends: depends}
}

func provider(name, version string, provides ...string) *alpm.Package {
	return &alpm.Package{Name: name, Version: version, Provides: provides}
}

// fakeAUR serves records from memory and records every call
type fakeAUR struct {
	mu         sync.Mutex
	records    map[string]aur.Record
	infoErr    error
	searchErrs map[string]error
	delays     map[string]time.Duration
	infoCalls  [][]string
	searches   []string
}

func newFakeAUR(records ...aur.Record) *fakeAUR {
	f := &fakeAUR{
		records:    make(map[string]aur.Record),
		searchErrs: make(map[string]error),
		delays:     make(map[string]time.Duration),
	}
	for _, r := range records {
		f.records[r.Name] = r
	}
	return f
}

func (f *fakeAUR) Info(_ context.Context, names []string) ([]aur.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoCalls = append(f.infoCalls, append([]string(nil), names...))
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	var out []aur.Record
	for _, n := range names {
		if r, ok := f.records[n]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAUR) SearchByProvides(_ context.Context, name string) ([]aur.Record, error) {
	f.mu.Lock()
	delay := f.delays[name]
	f.mu.Unlock()
	time.Sleep(delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, name)
	if err := f.searchErrs[name]; err != nil {
		return nil, err
	}
	var out []aur.Record
	for _, r := range f.records {
		for _, p := range r.Provides {
			if d, err := depspec.Parse(p); err == nil && d.Name == name {
				out = append(out, r)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// queried returns every name sent to the AUR, by info or search
func (f *fakeAUR) queried() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]int)
	for _, call := range f.infoCalls {
		for _, n := range call {
			seen[n]++
		}
	}
	for _, n := range f.searches {
		seen[n]++
	}
	return seen
}

func (f *fakeAUR) infoCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.infoCalls)
}

// fakeChecker answers like pacman -T from a fixed set of satisfied specs
type fakeChecker struct {
	satisfied map[string]bool
	calls     [][]string
	err       error
}

func (c *fakeChecker) CheckDeps(_ context.Context, deps []string) ([]string, error) {
	c.calls = append(c.calls, append([]string(nil), deps...))
	if c.err != nil {
		return nil, c.err
	}
	var unmet []string
	for _, d := range deps {
		if !c.satisfied[d] {
			unmet = append(unmet, d)
		}
	}
	return unmet, nil
}
