package deptree

import (
	"github.com/arthur-debert/rah/pkg/pkgref"
)

// PlanItem is one package to install or build
type PlanItem struct {
	Package pkgref.Package
	// Kind is the role of the edge that first pulled the package in
	Kind Kind
	// AsDeps is false for the requested targets only
	AsDeps     bool
	RequiredBy []string
}

// Name returns the package name
func (i PlanItem) Name() string { return i.Package.Name() }

// PackageBase returns the AUR package base, or the name for repo packages
func (i PlanItem) PackageBase() string {
	if a, ok := i.Package.(pkgref.AurPackage); ok {
		return a.PackageBase()
	}
	return i.Package.Name()
}

// Plan lists the packages to install, dependencies before dependents.
// Repo and AUR keep the relative order of Order.
type Plan struct {
	Order []PlanItem
	Repo  []PlanItem
	AUR   []PlanItem
}

// Empty reports whether there is nothing to do
func (p *Plan) Empty() bool { return len(p.Order) == 0 }

// Names returns the package names in install order
func (p *Plan) Names() []string {
	names := make([]string, len(p.Order))
	for i, it := range p.Order {
		names[i] = it.Name()
	}
	return names
}

// Bases returns the distinct AUR package bases in build order
func (p *Plan) Bases() []string {
	var bases []string
	seen := make(map[string]bool)
	for _, it := range p.AUR {
		if b := it.PackageBase(); !seen[b] {
			seen[b] = true
			bases = append(bases, b)
		}
	}
	return bases
}

// Plan orders the forest's packages topologically over depends,
// makedepends and checkdepends edges. Installed packages, optional
// dependencies and unresolved edges are left out. Ties follow the order in
// which packages were first discovered, and edges closing a cycle are
// ignored.
func (f *Forest) Plan() *Plan {
	owners := make(map[string]*Node)
	requiredBy := make(map[string][]string)
	f.Walk(func(n *Node, _ int) bool {
		if !plannable(n) {
			return false
		}
		id := n.ID()
		if !n.Shared && !n.Cycle {
			if _, ok := owners[id]; !ok {
				owners[id] = n
			}
		}
		for _, c := range n.Children {
			if plannable(c) {
				cid := c.ID()
				if !contains(requiredBy[cid], n.Name()) {
					requiredBy[cid] = append(requiredBy[cid], n.Name())
				}
			}
		}
		return true
	})

	const (
		active = 1
		done   = 2
	)
	state := make(map[string]int)
	plan := &Plan{}
	var visit func(id string)
	visit = func(id string) {
		if state[id] != 0 {
			return
		}
		owner, ok := owners[id]
		if !ok {
			return
		}
		state[id] = active
		for _, c := range owner.Children {
			if plannable(c) {
				visit(c.ID())
			}
		}
		state[id] = done

		it := PlanItem{
			Package:    owner.Package,
			Kind:       owner.Kind,
			AsDeps:     owner.Kind != KindBase,
			RequiredBy: requiredBy[id],
		}
		plan.Order = append(plan.Order, it)
		if owner.Package.Origin() == pkgref.OriginAUR {
			plan.AUR = append(plan.AUR, it)
		} else {
			plan.Repo = append(plan.Repo, it)
		}
	}
	for _, r := range f.Roots {
		if plannable(r) {
			visit(r.ID())
		}
	}
	return plan
}

func plannable(n *Node) bool {
	return n.Kind.Mandatory() && n.Outcome.Resolved()
}
