package stango

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/meigma/stango/internal/pathutil"
)

// FromDir builds a manifest of every file below dir.
//
// Each file is served at ServedPath(basePath, fullpath, strip), where fullpath
// is dir joined with the file's path relative to dir, and uses the StaticFile
// view with Params{ParamPath: fullpath}. Files are visited in lexical order.
// Symbolic links to files are included; links to directories are not
// followed.
//
// Unlike FromTar, entries whose served path is empty are kept. They are
// directory-style entries served through the index file.
//
// Errors from walking dir are returned as is (wrapped), and the partial
// manifest is discarded.
func FromDir(ctx context.Context, basePath, dir string, opts ...ScanOption) (*Files, error) {
	cfg := newScanConfig(opts)
	cfg.log().Info("scanning directory", "dir", dir, "base", basePath, "strip", cfg.strip)

	// WalkDir does not descend into a symlinked root; a trailing separator
	// makes it resolve the link. Names are still built from dir.
	root := dir
	if linksToDir(dir, nil) {
		root = dir + string(filepath.Separator)
	}

	result := &Files{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || linksToDir(path, d) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			// dir itself is not a directory.
			return nil
		}
		fullpath := pathutil.Join(dir, rel)
		if !cfg.keep(fullpath) {
			cfg.log().Debug("skipped file", "path", fullpath)
			return nil
		}

		served := ServedPath(basePath, filepath.ToSlash(fullpath), cfg.strip)
		cfg.log().Debug("adding file", "path", fullpath, "served", served)
		return result.Append(T(served, StaticFile, Params{ParamPath: fullpath}))
	})
	if err != nil {
		return nil, fmt.Errorf("scan directory %s: %w", dir, err)
	}

	cfg.log().Debug("directory scanned", "dir", dir, "file_count", result.Len())
	return result, nil
}

// linksToDir reports whether path is a symbolic link resolving to a directory.
// A nil d means path has not been visited yet and is checked with Lstat.
func linksToDir(path string, d fs.DirEntry) bool {
	if d == nil {
		info, err := os.Lstat(path)
		if err != nil || info.Mode()&fs.ModeSymlink == 0 {
			return false
		}
	} else if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
