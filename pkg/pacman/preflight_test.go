package pacman

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOSRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCheckExecContext(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"arch", "NAME=\"Arch Linux\"\nID=arch\n", false},
		{"derivative", "NAME=\"EndeavourOS\"\nID=\"endeavouros\"\nID_LIKE=\"arch\"\n", false},
		{"manjaro", "ID=manjaro\nID_LIKE=\"arch archlinux\"\n", false},
		{"debian", "NAME=\"Debian GNU/Linux\"\nID=debian\n", true},
		{"archlike name only", "NAME=\"archery\"\nID=fedora\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExecContext(writeOSRelease(t, tt.content))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrExecContext))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckExecContext_MissingFile(t *testing.T) {
	err := CheckExecContext(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExecContext))
	assert.True(t, errors.IsFatal(err))
}

func TestRequireRoot(t *testing.T) {
	err := RequireRoot(987654)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPermission))

	if _, statErr := os.Stat("/etc/passwd"); statErr == nil {
		assert.NoError(t, RequireRoot(0))
	}
}
