package stango

import (
	"bytes"
	_ "crypto/sha256" // sha256 backs digest.Canonical
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/singleflight"

	"github.com/meigma/stango/internal/tarfile"
)

// Re-export types from internal/tarfile for the public API.
type (
	// Member describes one entry of a tar archive.
	Member = tarfile.Member

	// Format identifies the compression wrapping a tar archive.
	Format = tarfile.Format
)

// Re-export format constants.
const (
	FormatPlain = tarfile.FormatPlain
	FormatGzip  = tarfile.FormatGzip
	FormatZstd  = tarfile.FormatZstd
	FormatBzip2 = tarfile.FormatBzip2
)

// fileSource wraps *os.File to implement tarfile.Source.
// os.File has ReadAt but not Size, so we cache the size at construction.
type fileSource struct {
	file *os.File
	size int64
}

// ReadAt implements io.ReaderAt.
func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.file.ReadAt(p, off)
}

// Size returns the total size of the file.
func (s *fileSource) Size() int64 {
	return s.size
}

// Archive is an open tar archive whose members are read on demand.
//
// Manifests built by FromTar reference the Archive from every entry, so it
// must stay open while the manifest is served. The Archive is owned by the
// caller of FromTar or OpenArchive, which must Close it.
//
// ReadMember is safe for concurrent use. Members of uncompressed archives are
// read with independent positioned reads; compressed archives are scanned
// sequentially, one read at a time.
type Archive struct {
	name    string
	src     *fileSource
	format  tarfile.Format
	members []Member
	byName  map[string]int
	pool    *tarfile.DecompressPool
	logger  *slog.Logger

	mu     sync.Mutex // serializes sequential scans and Close
	closed atomic.Bool
	group  singleflight.Group
}

// archiveConfig holds configuration for OpenArchive.
type archiveConfig struct {
	maxDecoderMemory uint64
	logger           *slog.Logger
}

// ArchiveOption configures OpenArchive.
type ArchiveOption func(*archiveConfig)

// ArchiveWithMaxDecoderMemory limits the memory used by zstd decoders.
// Zero means no limit.
func ArchiveWithMaxDecoderMemory(n uint64) ArchiveOption {
	return func(cfg *archiveConfig) {
		cfg.maxDecoderMemory = n
	}
}

// ArchiveWithLogger sets the logger for archive operations.
// If not set, logging is disabled.
func ArchiveWithLogger(logger *slog.Logger) ArchiveOption {
	return func(cfg *archiveConfig) {
		cfg.logger = logger
	}
}

// OpenArchive opens a tar archive for reading and reads its member list.
//
// Gzip, zstd and bzip2 compressed archives are detected from their content.
// The returned Archive must be closed to release the file handle.
func OpenArchive(name string, opts ...ArchiveOption) (*Archive, error) {
	cfg := archiveConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := os.Open(name) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	a := &Archive{
		name:   name,
		src:    &fileSource{file: f, size: info.Size()},
		pool:   tarfile.NewDecompressPool(cfg.maxDecoderMemory),
		logger: cfg.logger,
	}

	a.format, err = tarfile.Detect(a.src)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read archive %s: %w", name, err)
	}
	a.members, err = tarfile.Scan(a.src, a.format, a.pool)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read archive %s: %w", name, err)
	}

	// Later members shadow earlier ones with the same name.
	a.byName = make(map[string]int, len(a.members))
	for i, m := range a.members {
		a.byName[m.Name] = i
	}

	a.log().Debug("archive opened", "name", name, "format", a.format.String(), "members", len(a.members))
	return a, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// Name returns the file name the archive was opened from.
func (a *Archive) Name() string {
	return a.name
}

// Format returns the detected compression format.
func (a *Archive) Format() Format {
	return a.format
}

// Members returns all members in archive order, including non-regular ones.
func (a *Archive) Members() []Member {
	return slices.Clone(a.members)
}

// Member returns the member with the given name.
// If several members share the name, the last one is returned.
func (a *Archive) Member(name string) (Member, bool) {
	i, ok := a.byName[name]
	if !ok {
		return Member{}, false
	}
	return a.members[i], true
}

// ReadMember returns the content of the named regular member.
//
// Errors are *fs.PathError values wrapping fs.ErrNotExist for unknown names,
// fs.ErrInvalid for non-regular members and fs.ErrClosed after Close.
// Concurrent reads of the same member share one underlying read.
func (a *Archive) ReadMember(name string) ([]byte, error) {
	if a.closed.Load() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrClosed}
	}
	m, ok := a.Member(name)
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	if !m.IsRegular() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}

	v, err, shared := a.group.Do(name, func() (any, error) {
		return a.read(m)
	})
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	data := v.([]byte) //nolint:errcheck // type assertion always succeeds when err is nil
	if shared {
		data = bytes.Clone(data)
	}
	return data, nil
}

func (a *Archive) read(m Member) ([]byte, error) {
	if data, ok, err := tarfile.ReadAt(a.src, m); ok {
		return data, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed.Load() {
		return nil, fs.ErrClosed
	}
	a.log().Debug("sequential member read", "archive", a.name, "member", m.Name)
	return tarfile.Extract(a.src, a.format, a.pool, m.Index)
}

// Digest returns the canonical digest of the named member's content.
func (a *Archive) Digest(name string) (digest.Digest, error) {
	data, err := a.ReadMember(name)
	if err != nil {
		return "", err
	}
	return digest.FromBytes(data), nil
}

// Close closes the archive file. It is safe to call Close more than once.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed.Swap(true) {
		return nil
	}
	return a.src.file.Close()
}
