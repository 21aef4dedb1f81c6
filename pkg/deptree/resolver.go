package deptree

import (
	"context"
	"sort"

	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/aurcache"
	"github.com/arthur-debert/rah/pkg/depspec"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
	"github.com/arthur-debert/rah/pkg/pkgref"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency bounds in-flight AUR lookups when Options leaves it unset
const DefaultMaxConcurrency = 8

// Databases is the view of the pacman databases the resolver needs.
// *alpm.Handle implements it.
type Databases interface {
	LocalDB() *alpm.DB
	SyncDBs() []*alpm.DB
}

// LocalChecker decides which dependency specs the installed system already
// satisfies. *pacman.Checker implements it.
type LocalChecker interface {
	CheckDeps(ctx context.Context, deps []string) ([]string, error)
}

// Options tunes a Resolver
type Options struct {
	// IncludeCheckDepends follows checkdepends of AUR packages
	IncludeCheckDepends bool
	// IncludeOptional attaches optdepends to the forest. They are resolved
	// and reported but never expanded or planned.
	IncludeOptional bool
	// MaxConcurrency bounds concurrent AUR lookups per level
	MaxConcurrency int
	// LocalChecker, when set, replaces the local database lookup for
	// deciding whether a spec is already satisfied
	LocalChecker LocalChecker
}

// Resolver builds dependency forests. A Resolver holds no per-run state
// and may be reused; every Build starts with an empty AUR cache.
type Resolver struct {
	dbs    Databases
	aur    aurcache.Fetcher
	opts   Options
	logger zerolog.Logger
}

// NewResolver creates a resolver over the given databases and AUR client
func NewResolver(dbs Databases, aurClient aurcache.Fetcher, opts Options) *Resolver {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	return &Resolver{
		dbs:    dbs,
		aur:    aurClient,
		opts:   opts,
		logger: logging.GetLogger("deptree"),
	}
}

// resolution is the memoized outcome of one dependency spec
type resolution struct {
	dep     depspec.Dep
	outcome Outcome
	pkg     pkgref.Package
}

// edge is a dependency waiting to be resolved at the current level
type edge struct {
	spec   string
	kind   Kind
	dep    depspec.Dep
	err    error
	parent *Node
	// path holds the package IDs from the root down to parent
	path []string
}

// item is a node whose dependencies still have to be enumerated
type item struct {
	node *Node
	path []string
}

// run is the state of a single Build call
type run struct {
	*Resolver
	cache      *aurcache.Cache
	visited    map[string]*resolution
	optVisited map[string]*resolution
	expanded   map[string]bool
	forest     *Forest
}

// Build resolves targets into a dependency forest.
//
// Missing and ambiguous dependencies do not stop the walk; when any are
// found Build returns the complete forest together with a
// *ResolutionError listing all of them. A fatal failure returns a nil
// forest: partial results of a cancelled run are discarded.
func (r *Resolver) Build(ctx context.Context, targets []string) (*Forest, error) {
	if len(targets) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no targets given")
	}

	ru := &run{
		Resolver:   r,
		cache:      aurcache.New(r.aur),
		visited:    make(map[string]*resolution),
		optVisited: make(map[string]*resolution),
		expanded:   make(map[string]bool),
		forest:     &Forest{},
	}

	defer logging.LogOperationStart(r.logger, "resolve")()
	r.logger.Debug().Strs("targets", targets).Msg("Resolving targets")

	edges := make([]edge, len(targets))
	for i, t := range targets {
		edges[i] = newEdge(t, KindBase, nil, nil)
	}
	roots, next, err := ru.resolveLevel(ctx, edges)
	if err != nil {
		return nil, err
	}
	ru.forest.Roots = roots

	for depth := 1; len(next) > 0; depth++ {
		edges = edges[:0]
		for _, it := range next {
			edges = append(edges, ru.edgesOf(it)...)
		}
		r.logger.Debug().Int("depth", depth).Int("nodes", len(next)).Int("edges", len(edges)).Msg("Expanding level")

		var nodes []*Node
		nodes, next, err = ru.resolveLevel(ctx, edges)
		if err != nil {
			return nil, err
		}
		for i, e := range edges {
			e.parent.Children = append(e.parent.Children, nodes[i])
		}
	}

	stats := ru.cache.Stats()
	ru.forest.Stats = Stats{
		Specs:          len(ru.visited),
		Packages:       len(ru.expanded),
		AURInfoCalls:   stats.InfoCalls,
		AURSearchCalls: stats.ProvidesCalls,
	}
	r.logger.Info().
		Int("packages", ru.forest.Stats.Packages).
		Int("unresolved", len(ru.forest.Unresolved)).
		Int("ambiguous", len(ru.forest.Ambiguous)).
		Int64("aur_info_calls", stats.InfoCalls).
		Msg("Resolution finished")

	if err := ru.forest.Err(); err != nil {
		return ru.forest, err
	}
	return ru.forest, nil
}

func newEdge(spec string, kind Kind, parent *Node, path []string) edge {
	e := edge{spec: spec, kind: kind, parent: parent, path: path}
	if kind == KindOptional {
		e.dep, e.err = depspec.ParseOptional(spec)
	} else {
		e.dep, e.err = depspec.Parse(spec)
	}
	return e
}

// edgesOf lists the dependencies of an expanded node in declaration order:
// depends, then makedepends and checkdepends for AUR packages, then
// optdepends
func (ru *run) edgesOf(it item) []edge {
	pkg := it.node.Package
	var edges []edge
	add := func(specs []string, kind Kind) {
		for _, s := range specs {
			edges = append(edges, newEdge(s, kind, it.node, it.path))
		}
	}

	add(pkg.Depends(), KindRuntime)
	if pkg.Origin() == pkgref.OriginAUR {
		if deps, err := pkg.MakeDepends(); err == nil {
			add(deps, KindMake)
		}
		if ru.opts.IncludeCheckDepends {
			if deps, err := pkg.CheckDepends(); err == nil {
				add(deps, KindCheck)
			}
		}
	}
	if ru.opts.IncludeOptional {
		add(pkg.OptDepends(), KindOptional)
	}
	return edges
}

// resolveLevel resolves one frontier's edges and returns their nodes, in
// edge order, along with the items to expand next
func (ru *run) resolveLevel(ctx context.Context, edges []edge) ([]*Node, []item, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCancelled, "resolution cancelled")
	}

	recs := make([]*resolution, len(edges))
	owner := make([]bool, len(edges))
	var fresh []int
	for i := range edges {
		e := &edges[i]
		if e.err != nil {
			recs[i] = &resolution{outcome: Outcome{Status: Unresolved, Reason: ReasonParseError, Err: e.err}}
			owner[i] = true
			continue
		}
		seen := ru.visited
		if e.kind == KindOptional {
			seen = ru.optVisited
		}
		key := e.dep.String()
		if rec, ok := seen[key]; ok {
			recs[i] = rec
			continue
		}
		rec := &resolution{dep: e.dep}
		seen[key] = rec
		recs[i] = rec
		owner[i] = true
		fresh = append(fresh, i)
	}

	pending, err := ru.resolveInstalled(ctx, recs, fresh)
	if err != nil {
		return nil, nil, err
	}
	if err := ru.resolveAUR(ctx, recs, pending); err != nil {
		return nil, nil, err
	}

	nodes := make([]*Node, len(edges))
	var next []item
	for i, e := range edges {
		rec := recs[i]
		n := &Node{
			Spec:    e.spec,
			Dep:     e.dep,
			Kind:    e.kind,
			Package: rec.pkg,
			Outcome: rec.outcome,
			Shared:  !owner[i],
		}
		nodes[i] = n

		if owner[i] {
			ru.record(e, n)
		}
		if n.Package == nil {
			continue
		}
		id := pkgref.ID(n.Package)
		if contains(e.path, id) {
			n.Cycle = true
			continue
		}
		if n.Shared || !n.Outcome.Resolved() || !e.kind.Mandatory() {
			continue
		}
		if ru.expanded[id] {
			n.Shared = true
			continue
		}
		ru.expanded[id] = true
		path := make([]string, len(e.path), len(e.path)+1)
		copy(path, e.path)
		next = append(next, item{node: n, path: append(path, id)})
	}
	return nodes, next, nil
}

// resolveInstalled settles fresh edges against the local and sync
// databases and returns the ones left for the AUR
func (ru *run) resolveInstalled(ctx context.Context, recs []*resolution, fresh []int) ([]int, error) {
	var unmet map[string]bool
	if ru.opts.LocalChecker != nil && len(fresh) > 0 {
		specs := make([]string, len(fresh))
		for j, i := range fresh {
			specs[j] = recs[i].dep.String()
		}
		missing, err := ru.opts.LocalChecker.CheckDeps(ctx, specs)
		if err != nil {
			return nil, err
		}
		unmet = make(map[string]bool, len(missing))
		for _, m := range missing {
			unmet[m] = true
		}
	}

	local := ru.dbs.LocalDB()
	var pending []int
	for _, i := range fresh {
		rec := recs[i]
		switch {
		case unmet != nil && !unmet[rec.dep.String()]:
			rec.settle(SatisfiedLocally, ru.installed(rec.dep))
			continue
		case unmet == nil && local != nil:
			if p := local.Packages().FindSatisfier(rec.dep); p != nil {
				rec.settle(SatisfiedLocally, pkgref.FromRepo(p))
				continue
			}
		}
		if p := ru.findSync(rec.dep); p != nil {
			rec.settle(ResolvedRepo, pkgref.FromRepo(p))
			continue
		}
		pending = append(pending, i)
	}
	return pending, nil
}

// installed returns the local package satisfying dep. When the package
// manager reports a spec satisfied that the local database cannot match
// (an assumed-installed spec, for example) a placeholder is returned.
func (ru *run) installed(dep depspec.Dep) pkgref.Package {
	if local := ru.dbs.LocalDB(); local != nil {
		if p := local.Packages().FindSatisfier(dep); p != nil {
			return pkgref.FromRepo(p)
		}
	}
	return pkgref.FromRepo(&alpm.Package{Name: dep.Name, Version: dep.Version, DB: alpm.LocalDBName})
}

// findSync returns the first satisfier in sync database priority order
func (ru *run) findSync(dep depspec.Dep) *alpm.Package {
	for _, db := range ru.dbs.SyncDBs() {
		if p := db.Packages().FindSatisfier(dep); p != nil {
			return p
		}
	}
	return nil
}

// resolveAUR looks the pending edges up in the AUR. Known names go out in
// one batched info request; the per-name follow-ups run concurrently and
// are merged back by index.
func (ru *run) resolveAUR(ctx context.Context, recs []*resolution, pending []int) error {
	if len(pending) == 0 {
		return nil
	}

	names := make([]string, 0, len(pending))
	seen := make(map[string]bool, len(pending))
	for _, i := range pending {
		if name := recs[i].dep.Name; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	ru.cache.Prefetch(ctx, names)

	results := make([]aurcache.Result, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ru.opts.MaxConcurrency)
	for j, i := range pending {
		j, i := j, i
		name := recs[i].dep.Name
		g.Go(func() error {
			res := ru.cache.GetOrFetch(gctx, name)
			if rec := res.Record; res.Err == nil && rec != nil &&
				!depspec.SatisfiedBy(recs[i].dep, rec.Name, rec.Version, rec.Provides) {
				// the exact match is too old or too new, another package may provide it
				res.Providers, res.Err = ru.cache.Providers(gctx, name)
			}
			if isAbort(res.Err) {
				return res.Err
			}
			results[j] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCancelled, "resolution cancelled")
	}

	for j, i := range pending {
		rec := recs[i]
		rec.outcome, rec.pkg = classifyAUR(rec.dep, results[j])
		ru.logger.Debug().
			Str("dep", rec.dep.String()).
			Str("status", rec.outcome.Status.String()).
			Msg("Resolved against AUR")
	}
	return nil
}

// classifyAUR turns an AUR lookup into an outcome. A satisfying exact
// name match wins; otherwise exactly one satisfying provider resolves the
// spec and several make it ambiguous. No candidate is ever picked silently.
func classifyAUR(dep depspec.Dep, res aurcache.Result) (Outcome, pkgref.Package) {
	if res.Err != nil {
		return Outcome{Status: Unresolved, Reason: ReasonNetworkError, Err: res.Err}, nil
	}

	exact := res.Record
	if exact != nil && depspec.SatisfiedBy(dep, exact.Name, exact.Version, exact.Provides) {
		return Outcome{Status: ResolvedAUR}, pkgref.FromAUR(exact)
	}

	var matches []int
	for i := range res.Providers {
		p := &res.Providers[i]
		if exact != nil && p.Name == exact.Name {
			continue
		}
		if depspec.SatisfiedBy(dep, p.Name, p.Version, p.Provides) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		var err *errors.RahError
		if exact != nil {
			err = errors.Newf(errors.ErrNotFound, "aur has %s %s which does not satisfy %s", exact.Name, exact.Version, dep)
		} else if !res.Found() {
			err = errors.Newf(errors.ErrNotFound, "nothing provides %s", dep)
		} else {
			err = errors.Newf(errors.ErrNotFound, "no provider of %s satisfies %s", dep.Name, dep)
		}
		return Outcome{Status: Unresolved, Reason: ReasonNotFound, Err: err.WithDetail("dep", dep.String())}, nil
	case 1:
		rec := res.Providers[matches[0]]
		return Outcome{Status: ResolvedAUR}, pkgref.FromAUR(&rec)
	}
	candidates := make([]string, len(matches))
	for j, i := range matches {
		candidates[j] = res.Providers[i].Name
	}
	sort.Strings(candidates)
	return Outcome{Status: Ambiguous, Candidates: candidates}, nil
}

// record adds an owning node's problems to the forest report
func (ru *run) record(e edge, n *Node) {
	requiredBy := ""
	if e.parent != nil {
		requiredBy = e.parent.Name()
	}
	if e.kind == KindOptional {
		ru.forest.Optional = append(ru.forest.Optional, OptionalDep{
			Spec:        e.spec,
			Description: e.dep.Description,
			RequiredBy:  requiredBy,
			Node:        n,
		})
		return
	}
	switch n.Outcome.Status {
	case Unresolved:
		ru.forest.Unresolved = append(ru.forest.Unresolved, UnresolvedDep{
			Spec:       e.spec,
			Kind:       e.kind,
			Reason:     n.Outcome.Reason,
			RequiredBy: requiredBy,
			Err:        n.Outcome.Err,
		})
	case Ambiguous:
		ru.forest.Ambiguous = append(ru.forest.Ambiguous, AmbiguousDep{
			Spec:       e.spec,
			Kind:       e.kind,
			Candidates: n.Outcome.Candidates,
			RequiredBy: requiredBy,
		})
	}
}

func (rec *resolution) settle(status Status, pkg pkgref.Package) {
	rec.outcome = Outcome{Status: status}
	rec.pkg = pkg
}

// isAbort reports errors that end the whole run rather than one lookup
func isAbort(err error) bool {
	return errors.IsErrorCode(err, errors.ErrNetworkUnreachable) || errors.IsErrorCode(err, errors.ErrCancelled)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
