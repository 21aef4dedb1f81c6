package genconfig_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/rah/pkg/commands/genconfig"
	"github.com/arthur-debert/rah/pkg/config"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenConfig(t *testing.T) {
	t.Run("commented defaults", func(t *testing.T) {
		result, err := genconfig.GenConfig(genconfig.Options{})
		require.NoError(t, err)
		assert.Empty(t, result.Written)
		assert.Contains(t, result.Content, "[aur]")
		assert.Contains(t, result.Content, "# db_path = \"/var/lib/pacman/\"")

		for _, line := range strings.Split(result.Content, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") ||
				(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
				continue
			}
			assert.Fail(t, "Found uncommented configuration line", "Line: %s", line)
		}
	})

	t.Run("effective configuration", func(t *testing.T) {
		t.Setenv(paths.EnvConfigDir, t.TempDir())
		t.Setenv("RAH_DB_PATH", "/srv/pacman")
		cfg, err := config.Load(config.LoadOptions{})
		require.NoError(t, err)

		result, err := genconfig.GenConfig(genconfig.Options{Config: cfg})
		require.NoError(t, err)
		assert.Contains(t, result.Content, "/srv/pacman")
	})

	t.Run("write creates the directory", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "nested", "rah", "config.toml")

		result, err := genconfig.GenConfig(genconfig.Options{Write: true, Target: target})
		require.NoError(t, err)
		assert.Equal(t, target, result.Written)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, result.Content, string(data))
	})

	t.Run("write never overwrites", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(target, []byte("color = \"never\"\n"), 0644))

		_, err := genconfig.GenConfig(genconfig.Options{Write: true, Target: target})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "color = \"never\"\n", string(data))
	})

	t.Run("write without target", func(t *testing.T) {
		_, err := genconfig.GenConfig(genconfig.Options{Write: true})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}
