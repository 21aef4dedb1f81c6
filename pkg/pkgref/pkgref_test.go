package pkgref_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/aur"
	"github.com/arthur-debert/rah/pkg/depspec"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/pkgref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ pkgref.Package = pkgref.RepoPackage{}
	_ pkgref.Package = pkgref.AurPackage{}
)

func TestRepoPackage(t *testing.T) {
	db := alpm.NewDB("extra", &alpm.Package{
		Name:       "go",
		Version:    "2:1.21.5-1",
		Depends:    []string{"glibc"},
		OptDepends: []string{"git: for go get"},
		Provides:   []string{"go-tools"},
	})
	p := pkgref.FromRepo(db.Packages().Find("go"))

	assert.Equal(t, "go", p.Name())
	assert.Equal(t, "2:1.21.5-1", p.Version())
	assert.Equal(t, pkgref.OriginRepo, p.Origin())
	assert.Equal(t, "extra", p.Source())
	assert.Equal(t, []string{"glibc"}, p.Depends())
	assert.Equal(t, []string{"git: for go get"}, p.OptDepends())
	assert.Equal(t, "extra/go", pkgref.ID(p))

	_, err := p.MakeDepends()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotApplicable))
	assert.True(t, stderrors.Is(err, pkgref.ErrNotApplicable))

	_, err = p.CheckDepends()
	assert.True(t, stderrors.Is(err, pkgref.ErrNotApplicable))
}

func TestAurPackage(t *testing.T) {
	p := pkgref.FromAUR(&aur.Record{
		Name:         "pkgA",
		PackageBase:  "pkgA-base",
		Version:      "1.0-1",
		Depends:      []string{"git", "pacman"},
		MakeDepends:  []string{"go"},
		CheckDepends: []string{"python-pytest"},
		Provides:     []string{"pkga=1.0"},
	})

	assert.Equal(t, pkgref.OriginAUR, p.Origin())
	assert.Equal(t, pkgref.AURSource, p.Source())
	assert.Equal(t, "pkgA-base", p.PackageBase())

	makeDeps, err := p.MakeDepends()
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, makeDeps)

	checkDeps, err := p.CheckDepends()
	require.NoError(t, err)
	assert.Equal(t, []string{"python-pytest"}, checkDeps)

	assert.True(t, pkgref.Satisfies(p, depspec.MustParse("pkgA>=1")))
	assert.True(t, pkgref.Satisfies(p, depspec.MustParse("pkga=1.0")))
	assert.False(t, pkgref.Satisfies(p, depspec.MustParse("pkgA>1.0")))

	assert.Equal(t, "pkgB", pkgref.FromAUR(&aur.Record{Name: "pkgB"}).PackageBase())
}
