package alpm

import (
	"archive/tar"
	"bufio"
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// SigLevel is the signature verification level requested for a sync
// database. It is recorded for display only: signatures are not checked.
type SigLevel int

const (
	SigLevelDefault SigLevel = iota
	SigLevelNone
	SigLevelOptional
	SigLevelRequired
)

// ParseSigLevel converts the config spelling of a signature level
func ParseSigLevel(s string) (SigLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return SigLevelDefault, nil
	case "none", "never":
		return SigLevelNone, nil
	case "optional":
		return SigLevelOptional, nil
	case "required":
		return SigLevelRequired, nil
	}
	return SigLevelDefault, errors.Newf(errors.ErrConfigValid, "unknown signature level %q", s)
}

func (l SigLevel) String() string {
	switch l {
	case SigLevelNone:
		return "none"
	case SigLevelOptional:
		return "optional"
	case SigLevelRequired:
		return "required"
	}
	return "default"
}

// DB is one loaded package database
type DB struct {
	name     string
	sigLevel SigLevel
	pkgs     PackageList
}

// NewDB builds an in-memory database from already parsed packages
func NewDB(name string, pkgs ...*Package) *DB {
	for _, p := range pkgs {
		p.DB = name
	}
	return &DB{name: name, pkgs: newPackageList(pkgs)}
}

// Name returns the repository name ("local" for the local database)
func (db *DB) Name() string { return db.name }

// SigLevel returns the level the database was registered with
func (db *DB) SigLevel() SigLevel { return db.sigLevel }

// Packages returns all packages of the database ordered by name
func (db *DB) Packages() PackageList { return db.pkgs }

// LocalDBName is the name given to the database of installed packages
const LocalDBName = "local"

// Handle gives access to the local database and the registered sync
// databases. Sync databases keep their registration order, which is the
// priority order pacman uses.
type Handle struct {
	root   string
	dbPath string
	local  *DB
	syncs  []*DB
}

// Open loads the local database below dbPath. root is the installation
// root pacman operates on and is kept for reporting.
func Open(root, dbPath string) (*Handle, error) {
	logger := logging.GetLogger("alpm")

	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDatabase, "cannot access database path %s", dbPath)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrDatabase, "database path %s is not a directory", dbPath)
	}

	local, err := loadLocalDB(filepath.Join(dbPath, "local"))
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("root", root).
		Str("dbPath", dbPath).
		Int("installed", len(local.pkgs)).
		Msg("Local database loaded")

	return &Handle{root: root, dbPath: dbPath, local: local}, nil
}

// NewHandle assembles a handle from in-memory databases
func NewHandle(local *DB, syncs ...*DB) *Handle {
	if local == nil {
		local = NewDB(LocalDBName)
	}
	return &Handle{root: "/", local: local, syncs: syncs}
}

// Root returns the installation root
func (h *Handle) Root() string { return h.root }

// DBPath returns the database directory
func (h *Handle) DBPath() string { return h.dbPath }

// LocalDB returns the database of installed packages
func (h *Handle) LocalDB() *DB { return h.local }

// SyncDBs returns the registered sync databases in priority order
func (h *Handle) SyncDBs() []*DB { return h.syncs }

// RegisterSyncDB loads <dbpath>/sync/<name>.db and appends it to the sync
// database list. A missing or unreadable archive yields an
// ErrDatabaseUnavailable error and leaves the handle unchanged.
func (h *Handle) RegisterSyncDB(name string, level SigLevel) (*DB, error) {
	for _, db := range h.syncs {
		if db.name == name {
			return db, nil
		}
	}

	file := filepath.Join(h.dbPath, "sync", name+".db")
	db, err := loadSyncDB(name, file)
	if err != nil {
		return nil, err
	}
	db.sigLevel = level
	h.syncs = append(h.syncs, db)

	logger := logging.GetLogger("alpm")
	logger.Debug().
		Str("repo", name).
		Str("file", file).
		Str("sigLevel", level.String()).
		Int("packages", len(db.pkgs)).
		Msg("Sync database registered")
	return db, nil
}

func loadLocalDB(dir string) (*DB, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDatabase, "cannot read local database %s", dir)
	}

	logger := logging.GetLogger("alpm")
	pkgs := make([]*Package, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		descPath := filepath.Join(dir, entry.Name(), "desc")
		f, err := os.Open(descPath)
		if err != nil {
			logger.Warn().Err(err).Str("entry", entry.Name()).Msg("Skipping local package without desc")
			continue
		}
		pkg := &Package{}
		err = parseDesc(f, pkg)
		_ = f.Close()
		if err != nil || pkg.Name == "" {
			logger.Warn().Err(err).Str("entry", entry.Name()).Msg("Skipping unreadable local package")
			continue
		}
		pkgs = append(pkgs, pkg)
	}

	return NewDB(LocalDBName, pkgs...), nil
}

func loadSyncDB(name, file string) (*DB, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDatabaseUnavailable, "cannot open sync database %s", name).
			WithDetail("repo", name)
	}
	defer f.Close()

	pkgs, err := ReadSyncArchive(f)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDatabaseUnavailable, "cannot read sync database %s", name).
			WithDetail("repo", name)
	}
	return NewDB(name, pkgs...), nil
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// ReadSyncArchive parses a sync database archive. The compression is
// detected from the stream's magic bytes.
func ReadSyncArchive(r io.Reader) ([]*Package, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(6)

	var stream io.Reader = br
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		stream = gz
	case bytes.HasPrefix(magic, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		stream = dec
	case bytes.HasPrefix(magic, xzMagic):
		return nil, errors.New(errors.ErrDatabase, "xz compressed databases are not supported")
	}

	// entries are "<name>-<version>/desc" and, in older databases,
	// "<name>-<version>/depends"; both describe the same package
	byDir := make(map[string]*Package)
	var order []string

	tr := tar.NewReader(stream)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		dir, base := path.Split(strings.TrimPrefix(hdr.Name, "./"))
		if base != "desc" && base != "depends" {
			continue
		}
		pkg, ok := byDir[dir]
		if !ok {
			pkg = &Package{}
			byDir[dir] = pkg
			order = append(order, dir)
		}
		if err := parseDesc(tr, pkg); err != nil {
			return nil, err
		}
	}

	pkgs := make([]*Package, 0, len(order))
	for _, dir := range order {
		if pkg := byDir[dir]; pkg.Name != "" {
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs, nil
}
