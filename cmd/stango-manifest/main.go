// stango-manifest builds a static-content manifest from a directory tree or a
// tar archive and prints it, one entry per line:
//
//	served-path<TAB>source[<TAB>digest]
//
// The source is "file:<path>" for directory entries and "tar:<member>" for
// archive entries. With --resolve the content served at a path is written to
// stdout instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/stango"
)

func main() {
	err := run(context.Background(), os.Args[1:], env.ToMap(os.Environ()), os.Stdout, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, environ map[string]string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(args, environ, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	files, closeFn, err := buildManifest(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	if cfg.Prefix != "" {
		files, err = files.AddPrefix(cfg.Prefix)
		if err != nil {
			return err
		}
	}

	if cfg.Resolve != "" {
		f, ok := files.Lookup(cfg.Resolve, cfg.IndexFile)
		if !ok {
			return fmt.Errorf("resolve %s: %w", cfg.Resolve, fs.ErrNotExist)
		}
		content, err := f.Serve()
		if err != nil {
			return fmt.Errorf("resolve %s: %w", cfg.Resolve, err)
		}
		_, err = stdout.Write(content)
		return err
	}

	var digests []digest.Digest
	if cfg.Digest {
		digests, err = digestAll(ctx, files)
		if err != nil {
			return err
		}
	}

	for i, f := range files.All() {
		line := f.Path() + "\t" + source(f)
		if digests != nil {
			line += "\t" + digests[i].String()
		}
		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return err
		}
	}
	return nil
}

// buildManifest scans cfg.Source. The returned function releases the archive
// backing the manifest, if any.
func buildManifest(ctx context.Context, cfg config, logger *slog.Logger) (*stango.Files, func(), error) {
	opts := []stango.ScanOption{
		stango.ScanWithStrip(cfg.Strip),
		stango.ScanWithLogger(logger),
	}

	isArchive := cfg.Tar
	if !isArchive {
		info, err := os.Stat(cfg.Source)
		if err != nil {
			return nil, nil, err
		}
		isArchive = info.Mode().IsRegular()
	}

	if !isArchive {
		files, err := stango.FromDir(ctx, cfg.Base, cfg.Source, opts...)
		if err != nil {
			return nil, nil, err
		}
		return files, func() {}, nil
	}

	files, archive, err := stango.FromTar(ctx, cfg.Base, cfg.Source, opts...)
	if err != nil {
		return nil, nil, err
	}
	return files, func() {
		if err := archive.Close(); err != nil {
			logger.Warn("close archive", "archive", archive.Name(), "error", err)
		}
	}, nil
}

// digestAll serves every entry concurrently and returns the content digests
// in manifest order.
func digestAll(ctx context.Context, files *stango.Files) ([]digest.Digest, error) {
	digests := make([]digest.Digest, files.Len())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files.All() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := f.Serve()
			if err != nil {
				return fmt.Errorf("digest %s: %w", f.Path(), err)
			}
			digests[i] = digest.FromBytes(content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return digests, nil
}

func source(f stango.Filespec) string {
	if p, ok := f.Param(stango.ParamPath); ok {
		return fmt.Sprintf("file:%v", p)
	}
	if m, ok := f.Param(stango.ParamMember); ok {
		return fmt.Sprintf("tar:%v", m)
	}
	return "view"
}
