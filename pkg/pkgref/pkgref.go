// Package pkgref gives repository and AUR packages one set of accessors.
//
// Package is a closed sum type: the only implementations are RepoPackage,
// a reference into a pacman database, and AurPackage, which owns a record
// fetched from the AUR. Repository packages are already built, so asking
// one for its make or check dependencies fails with ErrNotApplicable.
package pkgref

import (
	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/aur"
	"github.com/arthur-debert/rah/pkg/depspec"
	"github.com/arthur-debert/rah/pkg/errors"
)

// Origin tells where a package comes from
type Origin int

const (
	OriginRepo Origin = iota
	OriginAUR
)

func (o Origin) String() string {
	if o == OriginAUR {
		return "aur"
	}
	return "repo"
}

// AURSource is the source name reported for AUR packages
const AURSource = "aur"

// ErrNotApplicable is returned for build-time metadata of repo packages
var ErrNotApplicable = errors.New(errors.ErrNotApplicable, "repository packages carry no build dependencies")

// Package is implemented by RepoPackage and AurPackage only
type Package interface {
	Name() string
	Version() string
	Description() string
	Origin() Origin
	// Source is the repository name, or "aur"
	Source() string
	Depends() []string
	MakeDepends() ([]string, error)
	CheckDepends() ([]string, error)
	OptDepends() []string
	Provides() []string

	sealed()
}

// RepoPackage references a package owned by a pacman database
type RepoPackage struct {
	pkg *alpm.Package
}

// FromRepo wraps a database package
func FromRepo(p *alpm.Package) RepoPackage { return RepoPackage{pkg: p} }

// Package returns the underlying database entry
func (r RepoPackage) Package() *alpm.Package { return r.pkg }

func (r RepoPackage) Name() string         { return r.pkg.Name }
func (r RepoPackage) Version() string      { return r.pkg.Version }
func (r RepoPackage) Description() string  { return r.pkg.Description }
func (r RepoPackage) Origin() Origin       { return OriginRepo }
func (r RepoPackage) Source() string       { return r.pkg.DB }
func (r RepoPackage) Depends() []string    { return r.pkg.Depends }
func (r RepoPackage) OptDepends() []string { return r.pkg.OptDepends }
func (r RepoPackage) Provides() []string   { return r.pkg.Provides }

// MakeDepends always fails for repository packages
func (r RepoPackage) MakeDepends() ([]string, error) {
	return nil, errors.Wrapf(ErrNotApplicable, errors.ErrNotApplicable, "make dependencies of %s", r.pkg.Name)
}

// CheckDepends always fails for repository packages
func (r RepoPackage) CheckDepends() ([]string, error) {
	return nil, errors.Wrapf(ErrNotApplicable, errors.ErrNotApplicable, "check dependencies of %s", r.pkg.Name)
}

func (RepoPackage) sealed() {}

// AurPackage owns a record fetched from the AUR
type AurPackage struct {
	rec *aur.Record
}

// FromAUR wraps an AUR record
func FromAUR(r *aur.Record) AurPackage { return AurPackage{rec: r} }

// Record returns the underlying AUR record
func (a AurPackage) Record() *aur.Record { return a.rec }

func (a AurPackage) Name() string         { return a.rec.Name }
func (a AurPackage) Version() string      { return a.rec.Version }
func (a AurPackage) Description() string  { return a.rec.Description }
func (a AurPackage) Origin() Origin       { return OriginAUR }
func (a AurPackage) Source() string       { return AURSource }
func (a AurPackage) Depends() []string    { return a.rec.Depends }
func (a AurPackage) OptDepends() []string { return a.rec.OptDepends }
func (a AurPackage) Provides() []string   { return a.rec.Provides }

// MakeDepends returns the packages needed to build the package
func (a AurPackage) MakeDepends() ([]string, error) { return a.rec.MakeDepends, nil }

// CheckDepends returns the packages needed to run the package's test suite
func (a AurPackage) CheckDepends() ([]string, error) { return a.rec.CheckDepends, nil }

// PackageBase is the name of the source package the AUR builds this from
func (a AurPackage) PackageBase() string {
	if a.rec.PackageBase != "" {
		return a.rec.PackageBase
	}
	return a.rec.Name
}

func (AurPackage) sealed() {}

// Satisfies reports whether p meets dep by name or through its provides
func Satisfies(p Package, dep depspec.Dep) bool {
	return depspec.SatisfiedBy(dep, p.Name(), p.Version(), p.Provides())
}

// ID identifies a package uniquely across sources
func ID(p Package) string {
	return p.Source() + "/" + p.Name()
}
