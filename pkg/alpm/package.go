package alpm

import (
	"regexp"
	"sort"
	"time"

	"github.com/arthur-debert/rah/pkg/depspec"
	"github.com/arthur-debert/rah/pkg/errors"
)

// InstallReason mirrors pacman's %REASON% field
type InstallReason int

const (
	ReasonExplicit InstallReason = iota
	ReasonDepend
)

func (r InstallReason) String() string {
	if r == ReasonDepend {
		return "Installed as a dependency for another package"
	}
	return "Explicitly installed"
}

// Package is one entry of a package database
type Package struct {
	Name          string
	Version       string
	Base          string
	Description   string
	URL           string
	Arch          string
	Packager      string
	BuildDate     time.Time
	InstallDate   time.Time
	Size          int64
	InstalledSize int64
	Reason        InstallReason
	Licenses      []string
	Groups        []string
	Depends       []string
	OptDepends    []string
	MakeDepends   []string
	CheckDepends  []string
	Provides      []string
	Conflicts     []string
	Replaces      []string

	// DB is the name of the database the package was read from
	DB string
}

// Satisfies reports whether the package meets dep by name or provides
func (p *Package) Satisfies(dep depspec.Dep) bool {
	return depspec.SatisfiedBy(dep, p.Name, p.Version, p.Provides)
}

// PackageList is a name-ordered list of packages belonging to one database
type PackageList []*Package

func newPackageList(pkgs []*Package) PackageList {
	list := make(PackageList, len(pkgs))
	copy(list, pkgs)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Find returns the package with the exact name, or nil
func (l PackageList) Find(name string) *Package {
	i := sort.Search(len(l), func(i int) bool { return l[i].Name >= name })
	if i < len(l) && l[i].Name == name {
		return l[i]
	}
	return nil
}

// FindSatisfier returns the package satisfying dep. A package with the
// literal name wins over providers; among providers the first in list
// order is returned. It returns nil when nothing satisfies dep.
func (l PackageList) FindSatisfier(dep depspec.Dep) *Package {
	if p := l.Find(dep.Name); p != nil && depspec.Satisfies(dep, p.Version) {
		return p
	}
	if providers := l.Providers(dep); len(providers) > 0 {
		return providers[0]
	}
	return nil
}

// Providers returns every package that provides the name of dep with a
// matching version, excluding a package with the literal name.
func (l PackageList) Providers(dep depspec.Dep) PackageList {
	var out PackageList
	for _, p := range l {
		if p.Name != dep.Name && depspec.ProvidedBy(dep, p.Provides) {
			out = append(out, p)
		}
	}
	return out
}

// Search returns the packages whose name or description match all the
// given regular expressions, case-insensitively.
func (l PackageList) Search(patterns []string) (PackageList, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid search pattern %q", p)
		}
		res = append(res, re)
	}

	var out PackageList
	for _, pkg := range l {
		if matchesAll(pkg, res) {
			out = append(out, pkg)
		}
	}
	return out, nil
}

func matchesAll(pkg *Package, res []*regexp.Regexp) bool {
	for _, re := range res {
		if !re.MatchString(pkg.Name) && !re.MatchString(pkg.Description) {
			return false
		}
	}
	return true
}

// Names returns the package names in list order
func (l PackageList) Names() []string {
	names := make([]string, len(l))
	for i, p := range l {
		names[i] = p.Name
	}
	return names
}

// String renders "name-version" like pacman does in its messages
func (p *Package) String() string {
	return p.Name + "-" + p.Version
}

