package alpm

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

const gitDesc = `%NAME%
git

%VERSION%
2.43.0-1

%DESC%
the fast distributed version control system

%ARCH%
x86_64

%BUILDDATE%
1700000000

%REASON%
1

%DEPENDS%
curl
expat
perl-error
zlib

%OPTDEPENDS%
tk: gitk and git gui

%PROVIDES%
git-core=2.43.0

`

const goDesc = `%FILENAME%
go-2:1.21.5-1-x86_64.pkg.tar.zst

%NAME%
go

%VERSION%
2:1.21.5-1

%DESC%
Core compiler tools for the Go programming language

%CSIZE%
42000000

%ISIZE%
190000000

%MAKEDEPENDS%
git
go

%CHECKDEPENDS%
clang

`

// writeLocalDB lays out a local database below dir/local
func writeLocalDB(t *testing.T, dir string, descs map[string]string) {
	t.Helper()
	for entry, desc := range descs {
		pkgDir := filepath.Join(dir, "local", entry)
		require.NoError(t, os.MkdirAll(pkgDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "desc"), []byte(desc), 0644))
	}
}

// buildTar builds an uncompressed sync archive from entry name to content
func buildTar(t *testing.T, files [][2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, f := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     f[0],
			Mode:     0644,
			Size:     int64(len(f[1])),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(data)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return buf.Bytes()
}
