// Package testutil builds directory trees and tar archives for tests.
package testutil

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/meigma/stango/internal/tarfile"
)

// TarEntry describes one member written by WriteTar.
type TarEntry struct {
	Name     string
	Body     []byte
	Typeflag byte // zero means tar.TypeReg
	Linkname string
}

// File is a shorthand for a regular file member.
func File(name, body string) TarEntry {
	return TarEntry{Name: name, Body: []byte(body), Typeflag: tar.TypeReg}
}

// Dir is a shorthand for a directory member. name should end with "/".
func Dir(name string) TarEntry {
	return TarEntry{Name: name, Typeflag: tar.TypeDir}
}

// Symlink is a shorthand for a symbolic link member.
func Symlink(name, target string) TarEntry {
	return TarEntry{Name: name, Typeflag: tar.TypeSymlink, Linkname: target}
}

// TarBytes encodes entries as a tar stream wrapped in the given format.
func TarBytes(t testing.TB, format tarfile.Format, entries ...TarEntry) []byte {
	t.Helper()

	var plain bytes.Buffer
	tw := tar.NewWriter(&plain)
	modTime := time.Unix(1700000000, 0)
	for _, e := range entries {
		typeflag := e.Typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}
		hdr := &tar.Header{
			Name:     e.Name,
			Typeflag: typeflag,
			Linkname: e.Linkname,
			Mode:     0o644,
			ModTime:  modTime,
		}
		if typeflag == tar.TypeReg {
			hdr.Size = int64(len(e.Body))
		}
		if typeflag == tar.TypeDir {
			hdr.Mode = 0o755
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if typeflag == tar.TypeReg {
			_, err := tw.Write(e.Body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())

	switch format {
	case tarfile.FormatPlain:
		return plain.Bytes()
	case tarfile.FormatGzip:
		var out bytes.Buffer
		zw := gzip.NewWriter(&out)
		_, err := io.Copy(zw, &plain)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		return out.Bytes()
	case tarfile.FormatZstd:
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		defer enc.Close()
		return enc.EncodeAll(plain.Bytes(), nil)
	default:
		t.Fatalf("testutil: cannot write %s archives", format)
		return nil
	}
}

// WriteTar writes a tar archive into a temporary directory and returns its path.
func WriteTar(t testing.TB, format tarfile.Format, entries ...TarEntry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.tar")
	require.NoError(t, os.WriteFile(path, TarBytes(t, format, entries...), 0o644))
	return path
}

// WriteTree creates files under root. Keys are slash-separated relative paths.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()

	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}
