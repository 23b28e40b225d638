// Package stango builds manifests of static content.
//
// A manifest ([Files]) is an ordered list of [Filespec] values. Each one maps
// a served URL path to a [View] and the [Params] the view needs to produce the
// content at request time:
//
//	files, err := stango.FromDir(ctx, "static", "assets", stango.ScanWithStrip(1))
//	if err != nil {
//	    return err
//	}
//
// Archives are scanned the same way. The returned [Archive] stays open while
// the manifest is in use and must be closed by the caller:
//
//	files, archive, err := stango.FromTar(ctx, "www", "site.tar.gz", stango.ScanWithStrip(1))
//	if err != nil {
//	    return err
//	}
//	defer archive.Close()
//
// Served paths that are empty or end with "/" denote directories. The serving
// layer resolves them with [Filespec.RealPath] and an index file name.
package stango
