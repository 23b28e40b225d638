package stango

import (
	"context"
	"fmt"
)

// FromTar opens the tar archive tarName and builds a manifest of its regular
// members.
//
// Each member is served at ServedPath(basePath, member.Name, strip) and uses
// the FileFromTar view with Params{ParamArchive: archive, ParamMember: name}.
// Members whose served path is empty are skipped, as are directories, links
// and other non-regular members. Entries keep archive order.
//
// The returned Archive backs every entry and stays open; the caller must
// close it once the manifest is no longer served. On error the archive is
// closed and nil is returned for both values.
func FromTar(ctx context.Context, basePath, tarName string, opts ...ScanOption) (*Files, *Archive, error) {
	cfg := newScanConfig(opts)
	archiveOpts := append([]ArchiveOption{ArchiveWithLogger(cfg.logger)}, cfg.archive...)

	archive, err := OpenArchive(tarName, archiveOpts...)
	if err != nil {
		return nil, nil, err
	}
	files, err := FromArchive(ctx, basePath, archive, opts...)
	if err != nil {
		if closeErr := archive.Close(); closeErr != nil {
			cfg.log().Warn("close archive", "archive", archive.Name(), "error", closeErr)
		}
		return nil, nil, err
	}
	return files, archive, nil
}

// FromArchive builds a manifest from an already open archive the same way
// FromTar does. The archive is not closed.
func FromArchive(ctx context.Context, basePath string, archive *Archive, opts ...ScanOption) (*Files, error) {
	cfg := newScanConfig(opts)
	cfg.log().Info("scanning archive", "archive", archive.Name(), "base", basePath, "strip", cfg.strip)

	result := &Files{}
	for _, m := range archive.members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !m.IsRegular() {
			continue
		}
		served := ServedPath(basePath, m.Name, cfg.strip)
		if served == "" || !cfg.keep(m.Name) {
			cfg.log().Debug("skipped member", "member", m.Name)
			continue
		}
		cfg.log().Debug("adding member", "member", m.Name, "served", served)
		err := result.Append(T(served, FileFromTar, Params{
			ParamArchive: archive,
			ParamMember:  m.Name,
		}))
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", archive.Name(), err)
		}
	}

	cfg.log().Debug("archive scanned", "archive", archive.Name(), "file_count", result.Len())
	return result, nil
}
