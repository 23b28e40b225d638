// Package tarfile enumerates and extracts tar archive members, transparently
// handling gzip, zstd and bzip2 compressed archives.
//
// Members of uncompressed archives record the offset of their content so they
// can be read with positioned reads. Compressed archives have to be scanned
// sequentially every time a member is extracted.
package tarfile

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMemberNotFound is returned when a member index is past the end of the archive.
var ErrMemberNotFound = errors.New("tarfile: member not found")

// Member describes one entry of a tar archive.
type Member struct {
	// Name is the member name as stored in the archive (e.g., "site/index.html").
	Name string

	// Index is the member's position in the archive, counting every header.
	Index int

	// Size is the size of the member content in bytes.
	Size int64

	// Typeflag is the tar header type.
	Typeflag byte

	// Offset is the byte offset of the member content in the archive file,
	// or -1 when the content cannot be read with a positioned read.
	Offset int64
}

// IsRegular reports whether the member holds regular file content.
func (m Member) IsRegular() bool {
	switch m.Typeflag {
	case tar.TypeReg, tar.TypeCont, tar.TypeGNUSparse:
		return true
	default:
		return false
	}
}

// Source is the random-access view of an archive file.
type Source interface {
	io.ReaderAt
	Size() int64
}

// Scan reads every header of the archive and returns its members in archive order.
func Scan(src Source, format Format, pool *DecompressPool) ([]Member, error) {
	sr := io.NewSectionReader(src, 0, src.Size())
	r, release, err := decompress(sr, format, pool)
	if err != nil {
		return nil, err
	}
	defer release()

	tr := tar.NewReader(r)
	var members []Member
	for i := 0; ; i++ {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return members, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read header %d: %w", i, err)
		}
		m := Member{
			Name:     hdr.Name,
			Index:    i,
			Size:     hdr.Size,
			Typeflag: hdr.Typeflag,
			Offset:   -1,
		}
		if format == FormatPlain && hdr.Typeflag == tar.TypeReg && !isSparse(hdr) {
			// tar.Reader does not buffer, so the section reader sits at the content.
			pos, err := sr.Seek(0, io.SeekCurrent)
			if err != nil {
				return nil, err
			}
			m.Offset = pos
		}
		members = append(members, m)
	}
}

// Extract reads the content of the member at position index by scanning the archive.
func Extract(src Source, format Format, pool *DecompressPool, index int) ([]byte, error) {
	sr := io.NewSectionReader(src, 0, src.Size())
	r, release, err := decompress(sr, format, pool)
	if err != nil {
		return nil, err
	}
	defer release()

	tr := tar.NewReader(r)
	for i := 0; ; i++ {
		_, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, ErrMemberNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("read header %d: %w", i, err)
		}
		if i == index {
			return io.ReadAll(tr)
		}
	}
}

// ReadAt reads the content of m with a positioned read.
// It reports false when m has no recorded offset.
func ReadAt(src io.ReaderAt, m Member) ([]byte, bool, error) {
	if m.Offset < 0 {
		return nil, false, nil
	}
	buf := make([]byte, m.Size)
	if _, err := io.ReadFull(io.NewSectionReader(src, m.Offset, m.Size), buf); err != nil {
		return nil, true, fmt.Errorf("read %s: %w", m.Name, err)
	}
	return buf, true, nil
}

func isSparse(hdr *tar.Header) bool {
	for k := range hdr.PAXRecords {
		if strings.HasPrefix(k, "GNU.sparse.") {
			return true
		}
	}
	return false
}
