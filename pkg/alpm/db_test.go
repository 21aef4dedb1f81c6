package alpm

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDesc(t *testing.T) {
	pkg := &Package{}
	require.NoError(t, parseDesc(strings.NewReader(gitDesc), pkg))

	assert.Equal(t, "git", pkg.Name)
	assert.Equal(t, "2.43.0-1", pkg.Version)
	assert.Equal(t, "x86_64", pkg.Arch)
	assert.Equal(t, int64(1700000000), pkg.BuildDate.Unix())
	assert.Equal(t, ReasonDepend, pkg.Reason)
	assert.Equal(t, []string{"curl", "expat", "perl-error", "zlib"}, pkg.Depends)
	assert.Equal(t, []string{"tk: gitk and git gui"}, pkg.OptDepends)
	assert.Equal(t, []string{"git-core=2.43.0"}, pkg.Provides)
}

func TestOpen_LocalDB(t *testing.T) {
	dir := t.TempDir()
	writeLocalDB(t, dir, map[string]string{
		"git-2.43.0-1": gitDesc,
		"zlib-1:1.3-1": "%NAME%\nzlib\n\n%VERSION%\n1:1.3-1\n\n",
	})
	// stray files next to package directories are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local", "ALPM_DB_VERSION"), []byte("9\n"), 0644))

	h, err := Open("/", dir)
	require.NoError(t, err)

	local := h.LocalDB()
	assert.Equal(t, LocalDBName, local.Name())
	assert.Equal(t, []string{"git", "zlib"}, local.Packages().Names())
	assert.Equal(t, LocalDBName, local.Packages().Find("git").DB)
	assert.Equal(t, dir, h.DBPath())
}

func TestOpen_MissingDBPath(t *testing.T) {
	_, err := Open("/", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDatabase))
}

func TestRegisterSyncDB(t *testing.T) {
	dir := t.TempDir()
	writeLocalDB(t, dir, map[string]string{"git-2.43.0-1": gitDesc})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sync"), 0755))

	archive := buildTar(t, [][2]string{
		{"go-2:1.21.5-1/desc", goDesc},
		{"git-2.43.0-1/desc", gitDesc},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sync", "extra.db"), gzipBytes(t, archive), 0644))

	h, err := Open("/", dir)
	require.NoError(t, err)

	db, err := h.RegisterSyncDB("extra", SigLevelNone)
	require.NoError(t, err)
	assert.Equal(t, "extra", db.Name())
	assert.Equal(t, SigLevelNone, db.SigLevel())
	assert.Equal(t, []string{"git", "go"}, db.Packages().Names())

	// registering twice keeps a single entry
	again, err := h.RegisterSyncDB("extra", SigLevelNone)
	require.NoError(t, err)
	assert.Same(t, db, again)
	assert.Len(t, h.SyncDBs(), 1)

	_, err = h.RegisterSyncDB("multilib", SigLevelNone)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDatabaseUnavailable))
	assert.Len(t, h.SyncDBs(), 1, "a failed registration leaves the handle unchanged")
}

func TestReadSyncArchive_Compression(t *testing.T) {
	archive := buildTar(t, [][2]string{
		{"go-2:1.21.5-1/desc", goDesc},
		{"go-2:1.21.5-1/files", "%FILES%\nusr/bin/go\n"},
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"plain", archive},
		{"gzip", gzipBytes(t, archive)},
		{"zstd", zstdBytes(t, archive)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkgs, err := ReadSyncArchive(bytes.NewReader(tt.data))
			require.NoError(t, err)
			require.Len(t, pkgs, 1)
			assert.Equal(t, "go", pkgs[0].Name)
			assert.Equal(t, "2:1.21.5-1", pkgs[0].Version)
			assert.Equal(t, []string{"git", "go"}, pkgs[0].MakeDepends)
			assert.Equal(t, []string{"clang"}, pkgs[0].CheckDepends)
			assert.Equal(t, int64(42000000), pkgs[0].Size)
		})
	}
}

func TestReadSyncArchive_LegacyDependsFile(t *testing.T) {
	archive := buildTar(t, [][2]string{
		{"foo-1.0-1/desc", "%NAME%\nfoo\n\n%VERSION%\n1.0-1\n\n"},
		{"foo-1.0-1/depends", "%DEPENDS%\nbar>=2\n\n%PROVIDES%\nlibfoo=1\n\n"},
	})

	pkgs, err := ReadSyncArchive(bytes.NewReader(archive))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, []string{"bar>=2"}, pkgs[0].Depends)
	assert.Equal(t, []string{"libfoo=1"}, pkgs[0].Provides)
}

func TestParseSigLevel(t *testing.T) {
	for in, want := range map[string]SigLevel{
		"":         SigLevelDefault,
		"None":     SigLevelNone,
		"optional": SigLevelOptional,
		"required": SigLevelRequired,
	} {
		got, err := ParseSigLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseSigLevel("paranoid")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
