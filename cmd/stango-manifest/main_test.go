package main

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/stango/internal/tarfile"
	"github.com/meigma/stango/internal/testutil"
)

func runCmd(t *testing.T, environ map[string]string, args ...string) (string, string, error) {
	t.Helper()
	if environ == nil {
		environ = map[string]string{}
	}
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, environ, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeSite(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	testutil.WriteTree(t, filepath.Join(tmp, "site"), map[string]string{
		"index.html":    "<h1>home</h1>",
		"css/style.css": "body{}",
	})
	t.Chdir(tmp)
}

func TestRunDirectory(t *testing.T) {
	writeSite(t)

	stdout, _, err := runCmd(t, nil, "--base", "www", "--strip", "1", "site")
	require.NoError(t, err)
	assert.Equal(t,
		"www/css/style.css\tfile:site/css/style.css\n"+
			"www/index.html\tfile:site/index.html\n",
		stdout)
}

func TestRunDirectoryWithDigest(t *testing.T) {
	writeSite(t)

	stdout, _, err := runCmd(t, nil, "--digest", "site")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "site/index.html\tfile:site/index.html\t"+digest.FromString("<h1>home</h1>").String(), lines[1])
}

func TestRunArchive(t *testing.T) {
	t.Parallel()

	name := testutil.WriteTar(t, tarfile.FormatGzip,
		testutil.Dir("site/"),
		testutil.File("site/index.html", "<h1>site</h1>"),
		testutil.File("site/img/a.png", "PNG"),
	)

	stdout, _, err := runCmd(t, nil, "-p", "1", "--base", "www", "--prefix", "static/", "--digest", name)
	require.NoError(t, err)
	assert.Equal(t,
		"static/www/index.html\ttar:site/index.html\t"+digest.FromString("<h1>site</h1>").String()+"\n"+
			"static/www/img/a.png\ttar:site/img/a.png\t"+digest.FromString("PNG").String()+"\n",
		stdout)
}

func TestRunResolve(t *testing.T) {
	t.Parallel()

	name := testutil.WriteTar(t, tarfile.FormatPlain,
		testutil.File("site/index.html", "<h1>site</h1>"),
		testutil.File("site/about/index.html", "<h1>about</h1>"),
	)

	stdout, _, err := runCmd(t, nil, "--tar", "-p", "1", "--resolve", "about/index.html", name)
	require.NoError(t, err)
	assert.Equal(t, "<h1>about</h1>", stdout)

	_, _, err = runCmd(t, nil, "-p", "1", "--resolve", "missing.html", name)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRunEnvironmentDefaults(t *testing.T) {
	t.Parallel()

	name := testutil.WriteTar(t, tarfile.FormatPlain, testutil.File("site/a.txt", "a"))
	environ := map[string]string{
		"STANGO_BASE":   "env",
		"STANGO_STRIP":  "1",
		"STANGO_PREFIX": "p/",
	}

	stdout, _, err := runCmd(t, environ, name)
	require.NoError(t, err)
	assert.Equal(t, "p/env/a.txt\ttar:site/a.txt\n", stdout)

	stdout, _, err = runCmd(t, environ, "--base", "flag", "--prefix", "", name)
	require.NoError(t, err)
	assert.Equal(t, "flag/a.txt\ttar:site/a.txt\n", stdout)
}

func TestRunVerboseLogs(t *testing.T) {
	t.Parallel()

	name := testutil.WriteTar(t, tarfile.FormatPlain, testutil.File("a.txt", "a"))
	_, stderr, err := runCmd(t, nil, "-v", name)
	require.NoError(t, err)
	assert.Contains(t, stderr, "scanning archive")
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	t.Run("no source", func(t *testing.T) {
		t.Parallel()
		_, stderr, err := runCmd(t, nil)
		require.Error(t, err)
		assert.Contains(t, stderr, "usage: stango-manifest")
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()
		_, _, err := runCmd(t, nil, filepath.Join(t.TempDir(), "missing"))
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Parallel()
		_, _, err := runCmd(t, map[string]string{"STANGO_STRIP": "many"}, "x")
		require.Error(t, err)
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		_, _, err := runCmd(t, nil, "--help")
		require.ErrorIs(t, err, pflag.ErrHelp)
	})

	t.Run("absolute prefix", func(t *testing.T) {
		t.Parallel()
		name := testutil.WriteTar(t, tarfile.FormatPlain, testutil.File("a.txt", "a"))
		_, _, err := runCmd(t, nil, "--prefix", "/abs/", name)
		require.Error(t, err)
	})

	t.Run("regular file that is not an archive", func(t *testing.T) {
		t.Parallel()
		name := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(name, bytes.Repeat([]byte("notes "), 200), 0o644))
		_, _, err := runCmd(t, nil, name)
		require.Error(t, err)
	})
}
