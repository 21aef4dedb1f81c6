package deptree

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/rah/pkg/errors"
)

// Forest is the result of one resolution run: one tree per target plus
// everything that could not be resolved
type Forest struct {
	Roots      []*Node
	Unresolved []UnresolvedDep
	Ambiguous  []AmbiguousDep
	Optional   []OptionalDep
	Stats      Stats
}

// Stats summarizes the work done by a run
type Stats struct {
	// Specs is the number of distinct mandatory dependency specs seen
	Specs int
	// Packages is the number of repo and AUR packages expanded
	Packages       int
	AURInfoCalls   int64
	AURSearchCalls int64
}

// UnresolvedDep is a dependency nothing could satisfy
type UnresolvedDep struct {
	Spec       string
	Kind       Kind
	Reason     Reason
	RequiredBy string
	Err        error
}

// AmbiguousDep is a dependency several AUR packages could satisfy
type AmbiguousDep struct {
	Spec       string
	Kind       Kind
	Candidates []string
	RequiredBy string
}

// OptionalDep is an optdepends entry. Node carries its resolution.
type OptionalDep struct {
	Spec        string
	Description string
	RequiredBy  string
	Node        *Node
}

// Walk visits every node of every tree, parents first
func (f *Forest) Walk(fn func(n *Node, depth int) bool) {
	for _, r := range f.Roots {
		r.Walk(fn)
	}
}

// Find returns the first expanded or leaf node resolving to name, skipping
// shared references and cycle markers
func (f *Forest) Find(name string) *Node {
	var found *Node
	f.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if !n.Shared && !n.Cycle && n.Name() == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// Err returns the aggregate of all unresolved and ambiguous dependencies,
// or nil when the forest is complete
func (f *Forest) Err() error {
	if len(f.Unresolved) == 0 && len(f.Ambiguous) == 0 {
		return nil
	}
	return &ResolutionError{Unresolved: f.Unresolved, Ambiguous: f.Ambiguous}
}

func (f *Forest) String() string {
	var b strings.Builder
	for _, r := range f.Roots {
		b.WriteString(r.String())
	}
	return b.String()
}

// ResolutionError reports every dependency a run failed to resolve
type ResolutionError struct {
	Unresolved []UnresolvedDep
	Ambiguous  []AmbiguousDep
}

func (e *ResolutionError) Error() string {
	var parts []string
	for _, u := range e.Unresolved {
		parts = append(parts, describe(u.Spec, u.RequiredBy)+": "+u.Reason.String())
	}
	for _, a := range e.Ambiguous {
		parts = append(parts, describe(a.Spec, a.RequiredBy)+": provided by "+strings.Join(a.Candidates, ", "))
	}
	return fmt.Sprintf("%d unresolved, %d ambiguous: %s",
		len(e.Unresolved), len(e.Ambiguous), strings.Join(parts, "; "))
}

// Unwrap exposes the error code, UNRESOLVED or AMBIGUOUS when nothing is
// missing outright
func (e *ResolutionError) Unwrap() error {
	code := errors.ErrUnresolved
	if len(e.Unresolved) == 0 {
		code = errors.ErrAmbiguous
	}
	return errors.New(code, "dependency resolution incomplete").
		WithDetail("unresolved", len(e.Unresolved)).
		WithDetail("ambiguous", len(e.Ambiguous))
}

func describe(spec, requiredBy string) string {
	if requiredBy == "" {
		return spec
	}
	return spec + " (required by " + requiredBy + ")"
}
