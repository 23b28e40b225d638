package tarfile

import (
	"bytes"
	"errors"
	"io"
)

// Format identifies the compression wrapping a tar stream.
type Format uint8

const (
	FormatPlain Format = iota
	FormatGzip
	FormatZstd
	FormatBzip2
)

// String returns the human-readable name of the format.
func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "tar"
	case FormatGzip:
		return "gzip"
	case FormatZstd:
		return "zstd"
	case FormatBzip2:
		return "bzip2"
	default:
		return "unknown"
	}
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	bzip2Magic = []byte("BZh")
)

// Detect sniffs the leading bytes of src to find the compression format.
// Anything not recognized as compressed is treated as a plain tar stream.
func Detect(src io.ReaderAt) (Format, error) {
	var head [4]byte
	n, err := src.ReadAt(head[:], 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return FormatPlain, err
	}
	b := head[:n]
	switch {
	case bytes.HasPrefix(b, zstdMagic):
		return FormatZstd, nil
	case bytes.HasPrefix(b, gzipMagic):
		return FormatGzip, nil
	case bytes.HasPrefix(b, bzip2Magic):
		return FormatBzip2, nil
	default:
		return FormatPlain, nil
	}
}
