package rah_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/rah/cmd/rah"
	"github.com/arthur-debert/rah/pkg/aur"
	"github.com/arthur-debert/rah/pkg/errors"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desc(name, version string, depends ...string) string {
	s := "%NAME%\n" + name + "\n\n%VERSION%\n" + version + "\n\n%DESC%\n" + name + " package\n\n"
	if len(depends) > 0 {
		s += "%DEPENDS%\n" + strings.Join(depends, "\n") + "\n\n"
	}
	return s
}

// fixture is a pacman database directory, a fake AUR and a config file
// pointing at both
type fixture struct {
	dbPath string
	config string
	aur    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("RAH_CONFIG_DIR", filepath.Join(dir, "config"))
	t.Setenv("RAH_CACHE_DIR", filepath.Join(dir, "cache"))

	dbPath := filepath.Join(dir, "db")
	for name, body := range map[string]string{
		"glibc-2.39-1":  desc("glibc", "2.39-1"),
		"pacman-6.1.0-3": desc("pacman", "6.1.0-3", "glibc"),
	} {
		pkgDir := filepath.Join(dbPath, "local", name)
		require.NoError(t, os.MkdirAll(pkgDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "desc"), []byte(body), 0o644))
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for dirName, body := range map[string]string{
		"git-2.45.2-1":  desc("git", "2.45.2-1", "glibc"),
		"go-2:1.22.5-1": desc("go", "2:1.22.5-1", "glibc"),
	} {
		data := []byte(body)
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: dirName + "/desc", Mode: 0o644, Size: int64(len(data)), Typeflag: tar.TypeReg}))
		_, err := tw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, os.MkdirAll(filepath.Join(dbPath, "sync"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dbPath, "sync", "core.db"), buf.Bytes(), 0o644))

	records := []aur.Record{
		{Name: "paru", PackageBase: "paru", Version: "2.0.3-1", Description: "Feature packed AUR helper",
			Depends: []string{"git", "pacman>=6"}, MakeDepends: []string{"go"}, Maintainer: "morganamilo"},
		{Name: "paru-bin", PackageBase: "paru-bin", Version: "2.0.3-1", Description: "Feature packed AUR helper (binary)",
			Depends: []string{"git", "pacman>=6"}},
		{Name: "broken", PackageBase: "broken", Version: "1.0-1", Description: "depends on nothing real",
			Depends: []string{"ghost"}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var results []aur.Record
		switch {
		case r.URL.Path == "/rpc/v5/info":
			for _, name := range r.URL.Query()["arg[]"] {
				for _, rec := range records {
					if rec.Name == name {
						results = append(results, rec)
					}
				}
			}
		case strings.HasPrefix(r.URL.Path, "/rpc/v5/search/"):
			term := strings.TrimPrefix(r.URL.Path, "/rpc/v5/search/")
			for _, rec := range records {
				if r.URL.Query().Get("by") != "provides" && strings.Contains(rec.Name, term) {
					results = append(results, rec)
				}
			}
		default:
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"version": 5, "type": "multiinfo", "resultcount": len(results), "results": results,
		})
	}))
	t.Cleanup(srv.Close)

	configFile := filepath.Join(dir, "rah.toml")
	content := fmt.Sprintf(`db_path = %q
color = "never"

[repos]
sync = ["core", "extra"]

[aur]
url = %q
requests_per_second = 100.0
burst = 100

[resolve]
use_pacman_check = false

[preflight]
check_os = false
`, dbPath, srv.URL)
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

	return &fixture{dbPath: dbPath, config: configFile, aur: srv}
}

// run executes rah with the fixture's config file
func (f *fixture) run(args ...string) (string, string, error) {
	cmd := rah.NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"-c", f.config}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCmd(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cmd := rah.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "rah version dev")
}

func TestRootWithoutCommand(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cmd := rah.NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestQuery(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("query")
	require.NoError(t, err)
	assert.Equal(t, "glibc 2.39-1\npacman 6.1.0-3\n", out)

	out, _, err = f.run("Q", "pacman")
	require.NoError(t, err)
	assert.Equal(t, "pacman 6.1.0-3\n", out)
}

func TestQuery_Missing(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("query", "glibc", "vim")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Equal(t, "glibc 2.39-1\n", out)
}

func TestQuery_SearchAndInfo(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("query", "-s", "^pac")
	require.NoError(t, err)
	assert.Equal(t, "pacman 6.1.0-3\n    pacman package\n", out)

	out, _, err = f.run("query", "-i", "pacman")
	require.NoError(t, err)
	assert.Contains(t, out, "Name            : pacman\n")
	assert.Contains(t, out, "Depends On      : glibc\n")

	_, _, err = f.run("query", "-s", "-i", "pacman")
	assert.Error(t, err)
}

func TestSync_Search(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("sync", "-s", "paru")
	require.NoError(t, err)
	expected := "aur/paru 2.0.3-1\n    Feature packed AUR helper\n" +
		"aur/paru-bin 2.0.3-1\n    Feature packed AUR helper (binary)\n"
	assert.Equal(t, expected, out)

	_, _, err = f.run("sync", "-s")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSync_Info(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("S", "-i", "paru")
	require.NoError(t, err)
	assert.Contains(t, out, "Repository      : aur\n")
	assert.Contains(t, out, "Make Deps       : go\n")
	assert.Contains(t, out, "AUR URL         : https://aur.archlinux.org/packages/paru\n")

	_, _, err = f.run("sync", "-i", "nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestSync_Plan(t *testing.T) {
	f := newFixture(t)

	out, stderr, err := f.run("sync", "paru")
	require.NoError(t, err)
	expected := ":: Repository packages (2)\n" +
		"   core/git 2.45.2-1 [depends]\n" +
		"   core/go 2:1.22.5-1 [makedepends]\n" +
		":: AUR packages (1)\n" +
		"   aur/paru 2.0.3-1\n"
	assert.Equal(t, expected, out)
	// the extra repository is configured but absent
	assert.Contains(t, stderr, "warning:")
}

func TestSync_PlanTree(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("sync", "--tree", "paru")
	require.NoError(t, err)
	assert.Contains(t, out, ":: Dependency tree\nparu 2.0.3-1 [base, aur]\n")
	assert.Contains(t, out, "  └─ pacman 6.1.0-3 [depends, installed]\n")
}

func TestSync_PlanUnresolved(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("sync", "broken")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnresolved))
	assert.Contains(t, out, ":: Unresolved dependencies\n")
	assert.Contains(t, out, "ghost (required by broken): not found")
}

func TestSync_PlanJSON(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("-o", "json", "sync", "paru")
	require.NoError(t, err)

	var plan struct {
		Targets []string `json:"targets"`
		Repo    []struct {
			Name string `json:"name"`
		} `json:"repo"`
		AUR []struct {
			Name   string `json:"name"`
			AsDeps bool   `json:"asDeps"`
		} `json:"aur"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, []string{"paru"}, plan.Targets)
	require.Len(t, plan.Repo, 2)
	require.Len(t, plan.AUR, 1)
	assert.Equal(t, "paru", plan.AUR[0].Name)
	assert.False(t, plan.AUR[0].AsDeps)
}

func TestSync_NoTargets(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run("sync")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestInvalidOutputFormat(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run("-o", "yaml", "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestGenConfig(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "# db_path = \"/var/lib/pacman/\"")
	assert.Contains(t, out, "[aur]")

	out, _, err = f.run("genconfig", "--effective")
	require.NoError(t, err)
	assert.Contains(t, out, f.dbPath)
	assert.Contains(t, out, f.aur.URL)
	assert.Contains(t, out, "cache_path")
}

func TestGenConfigWrite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("RAH_CONFIG_DIR", filepath.Join(dir, "config"))

	cmd := rah.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"genconfig", "--write"})
	require.NoError(t, cmd.Execute())

	target := filepath.Join(dir, "config", "config.toml")
	assert.Equal(t, "wrote "+target+"\n", out.String())
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[aur]")

	// the fixture's config file exists already
	f := newFixture(t)
	_, _, err = f.run("genconfig", "--write")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestMissingConfigFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cmd := rah.NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"-c", filepath.Join(t.TempDir(), "missing.toml"), "query"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
