package deptree

import (
	"strings"

	"github.com/arthur-debert/rah/pkg/depspec"
	"github.com/arthur-debert/rah/pkg/pkgref"
)

// Kind is the role of a dependency edge
type Kind int

const (
	KindBase Kind = iota
	KindRuntime
	KindMake
	KindCheck
	KindOptional
)

func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindRuntime:
		return "depends"
	case KindMake:
		return "makedepends"
	case KindCheck:
		return "checkdepends"
	case KindOptional:
		return "optdepends"
	}
	return "unknown"
}

// Mandatory reports whether edges of this kind are part of the plan
func (k Kind) Mandatory() bool {
	return k != KindOptional
}

// Status classifies how an edge was resolved
type Status int

const (
	SatisfiedLocally Status = iota
	ResolvedRepo
	ResolvedAUR
	Unresolved
	Ambiguous
)

func (s Status) String() string {
	switch s {
	case SatisfiedLocally:
		return "installed"
	case ResolvedRepo:
		return "repo"
	case ResolvedAUR:
		return "aur"
	case Unresolved:
		return "unresolved"
	case Ambiguous:
		return "ambiguous"
	}
	return "unknown"
}

// Reason explains an Unresolved outcome
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotFound
	ReasonNetworkError
	ReasonParseError
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not found"
	case ReasonNetworkError:
		return "network error"
	case ReasonParseError:
		return "invalid dependency"
	}
	return ""
}

// Outcome is the resolution result of one dependency spec
type Outcome struct {
	Status Status
	// Reason and Err are set for Unresolved outcomes
	Reason Reason
	Err    error
	// Candidates lists the competing AUR packages of an Ambiguous outcome
	Candidates []string
}

// Resolved reports whether the outcome points at a package to install
func (o Outcome) Resolved() bool {
	return o.Status == ResolvedRepo || o.Status == ResolvedAUR
}

// Node is one edge of the dependency forest together with the package it
// resolved to. Nodes own their children; there are no parent links.
type Node struct {
	// Spec is the dependency string as written by the parent (or the target)
	Spec string
	Dep  depspec.Dep
	Kind Kind
	// Package is nil for Unresolved and Ambiguous outcomes
	Package pkgref.Package
	Outcome Outcome
	// Shared marks a reference to a package expanded elsewhere in the forest
	Shared bool
	// Cycle marks an edge back to one of the node's ancestors
	Cycle    bool
	Children []*Node
}

// Name returns the resolved package name, or the requested name
func (n *Node) Name() string {
	if n.Package != nil {
		return n.Package.Name()
	}
	if n.Dep.Name != "" {
		return n.Dep.Name
	}
	return n.Spec
}

// ID identifies the resolved package across sources
func (n *Node) ID() string {
	if n.Package == nil {
		return ""
	}
	return pkgref.ID(n.Package)
}

// Walk visits n and its descendants depth first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// String renders the subtree in an indented one-node-per-line form, used
// in logs and tests
func (n *Node) String() string {
	var b strings.Builder
	n.Walk(func(n *Node, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Name())
		b.WriteString(" [")
		b.WriteString(n.Kind.String())
		b.WriteString(" ")
		b.WriteString(n.Outcome.Status.String())
		if n.Package != nil {
			b.WriteString(" ")
			b.WriteString(n.Package.Source())
		}
		if n.Shared {
			b.WriteString(" shared")
		}
		if n.Cycle {
			b.WriteString(" cycle")
		}
		b.WriteString("]\n")
		return true
	})
	return b.String()
}
