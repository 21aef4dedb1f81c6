package depspec

import (
	"strings"

	"github.com/arthur-debert/rah/pkg/errors"
)

// Op is a version comparison operator
type Op string

// Supported operators. OpAny means the dependency is unconstrained.
const (
	OpAny  Op = ""
	OpEQ   Op = "="
	OpEQEQ Op = "=="
	OpLT   Op = "<"
	OpLE   Op = "<="
	OpGT   Op = ">"
	OpGE   Op = ">="
)

const opChars = "=<>"

// Dep is a parsed dependency: a name and an optional constraint
type Dep struct {
	Name    string
	Op      Op
	Version string
	// Description is only set for optional dependencies ("name: why")
	Description string
}

// Constrained reports whether the dependency carries a version constraint
func (d Dep) Constrained() bool {
	return d.Op != OpAny
}

// String renders the dependency back to its canonical string form
func (d Dep) String() string {
	if d.Op == OpAny {
		return d.Name
	}
	return d.Name + string(d.Op) + d.Version
}

// Parse splits a dependency string at the first '=', '<' or '>'. A '='
// directly following the operator character makes it a two-character
// operator. A string without any operator character is unconstrained.
func Parse(spec string) (Dep, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" {
		return Dep{}, errors.New(errors.ErrVersionParse, "empty dependency string")
	}

	idx := strings.IndexAny(raw, opChars)
	if idx < 0 {
		if strings.ContainsAny(raw, " \t") {
			return Dep{}, errors.Newf(errors.ErrVersionParse, "invalid dependency %q", spec).
				WithDetail("spec", spec)
		}
		return Dep{Name: raw}, nil
	}

	name := strings.TrimSpace(raw[:idx])
	if name == "" {
		return Dep{}, errors.Newf(errors.ErrVersionParse, "dependency %q has no package name", spec).
			WithDetail("spec", spec)
	}

	opLen := 1
	if idx+1 < len(raw) && raw[idx+1] == '=' {
		opLen = 2
	}
	op := Op(raw[idx : idx+opLen])

	version := strings.TrimSpace(raw[idx+opLen:])
	if version == "" {
		return Dep{}, errors.Newf(errors.ErrVersionParse, "dependency %q has an operator but no version", spec).
			WithDetail("spec", spec)
	}
	if strings.ContainsAny(version, opChars) {
		return Dep{}, errors.Newf(errors.ErrVersionParse, "invalid version in %q", spec).
			WithDetail("spec", spec)
	}

	return Dep{Name: name, Op: op, Version: version}, nil
}

// MustParse is like Parse but panics on error. Meant for literals in tests
// and static tables.
func MustParse(spec string) Dep {
	d, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseOptional parses an optional dependency, which may carry a
// human readable description after ": ".
func ParseOptional(spec string) (Dep, error) {
	head, desc, _ := strings.Cut(spec, ": ")
	d, err := Parse(strings.TrimSuffix(head, ":"))
	if err != nil {
		return Dep{}, err
	}
	d.Description = strings.TrimSpace(desc)
	return d, nil
}

// Satisfies reports whether a package at candidateVersion meets the
// constraint. Unconstrained dependencies are satisfied by any version.
func Satisfies(d Dep, candidateVersion string) bool {
	if d.Op == OpAny {
		return true
	}
	cmp := Compare(candidateVersion, d.Version)
	switch d.Op {
	case OpEQ, OpEQEQ:
		return cmp == 0
	case OpLT:
		return cmp < 0
	case OpLE:
		return cmp <= 0
	case OpGT:
		return cmp > 0
	case OpGE:
		return cmp >= 0
	}
	return false
}

// SatisfiedBy reports whether a package named name at version satisfies d,
// either directly or through one of its provides entries. An unversioned
// provision only satisfies an unconstrained dependency.
func SatisfiedBy(d Dep, name, version string, provides []string) bool {
	if name == d.Name && Satisfies(d, version) {
		return true
	}
	return ProvidedBy(d, provides)
}

// ProvidedBy reports whether one of the provides entries satisfies d
func ProvidedBy(d Dep, provides []string) bool {
	for _, p := range provides {
		prov, err := Parse(p)
		if err != nil || prov.Name != d.Name {
			continue
		}
		if d.Op == OpAny {
			return true
		}
		if (prov.Op == OpEQ || prov.Op == OpEQEQ) && Satisfies(d, prov.Version) {
			return true
		}
	}
	return false
}
