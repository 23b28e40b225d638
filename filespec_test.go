package stango

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoView(path string, _ Params) ([]byte, error) {
	return []byte(path), nil
}

func otherView(string, Params) ([]byte, error) {
	return nil, nil
}

func mustFilespec(t *testing.T, path string, view View, params ...Params) Filespec {
	t.Helper()
	f, err := NewFilespec(path, view, params...)
	require.NoError(t, err)
	return f
}

func TestNewFilespec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		view    View
		params  []Params
		wantErr error
	}{
		{"file", "a/b.txt", echoView, nil, nil},
		{"empty path", "", echoView, nil, nil},
		{"directory", "docs/", echoView, nil, nil},
		{"explicit params", "a", echoView, []Params{{"x": 1}}, nil},
		{"nil params", "a", echoView, []Params{nil}, nil},
		{"absolute path", "/a", echoView, nil, ErrAbsolutePath},
		{"root", "/", echoView, nil, ErrAbsolutePath},
		{"nil view", "a", nil, nil, ErrNotCallable},
		{"too many params", "a", echoView, []Params{{}, {}}, ErrArity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := NewFilespec(tt.path, tt.view, tt.params...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, f.Path())
			assert.True(t, sameView(tt.view, f.View()))
			assert.NotNil(t, f.Params())
		})
	}
}

func TestFilespecErrorNamesPath(t *testing.T) {
	t.Parallel()

	_, err := NewFilespec("/etc/passwd", echoView)
	require.ErrorIs(t, err, ErrAbsolutePath)
	assert.Contains(t, err.Error(), `"/etc/passwd"`)
}

func TestFilespecParamsAreCopied(t *testing.T) {
	t.Parallel()

	params := Params{"path": "a.txt"}
	f := mustFilespec(t, "a", echoView, params)

	params["path"] = "changed"
	assert.Equal(t, Params{"path": "a.txt"}, f.Params())

	got := f.Params()
	got["path"] = "changed again"
	v, ok := f.Param("path")
	require.True(t, ok)
	assert.Equal(t, "a.txt", v)

	_, ok = f.Param("missing")
	assert.False(t, ok)
}

func TestFilespecIsDir(t *testing.T) {
	t.Parallel()

	assert.True(t, mustFilespec(t, "", echoView).IsDir())
	assert.True(t, mustFilespec(t, "a/", echoView).IsDir())
	assert.False(t, mustFilespec(t, "a/b", echoView).IsDir())
	assert.False(t, mustFilespec(t, "a", echoView).IsDir())
}

func TestFilespecRealPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		indexFile string
		want      string
		wantErr   error
	}{
		{"empty path", "", "index.html", "index.html", nil},
		{"directory", "dir/", "index.html", "dir/index.html", nil},
		{"file ignores index", "a/b.txt", "index.html", "a/b.txt", nil},
		{"file without index", "a/b.txt", "", "a/b.txt", nil},
		{"directory without index", "dir/", "", "", ErrNoIndexFile},
		{"empty path without index", "", "", "", ErrNoIndexFile},
		{"not cleaned", "a/../", "index.html", "a/../index.html", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := mustFilespec(t, tt.path, echoView).RealPath(tt.indexFile)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilespecEqual(t *testing.T) {
	t.Parallel()

	base := mustFilespec(t, "a", echoView, Params{"x": 1})

	assert.True(t, base.Equal(mustFilespec(t, "a", echoView, Params{"x": 1})))
	assert.False(t, base.Equal(mustFilespec(t, "b", echoView, Params{"x": 1})))
	assert.False(t, base.Equal(mustFilespec(t, "a", otherView, Params{"x": 1})))
	assert.False(t, base.Equal(mustFilespec(t, "a", echoView, Params{"x": 2})))
	assert.False(t, base.Equal(mustFilespec(t, "a", echoView)))

	assert.True(t, mustFilespec(t, "a", echoView).Equal(mustFilespec(t, "a", echoView, nil)))
}

func TestFilespecEqualComparesViewCode(t *testing.T) {
	t.Parallel()

	var views []View
	for _, body := range []string{"one", "two"} {
		views = append(views, func(string, Params) ([]byte, error) {
			return []byte(body), nil
		})
	}

	a := mustFilespec(t, "a", views[0])
	b := mustFilespec(t, "a", views[1])
	assert.True(t, a.Equal(b), "closures from one site share code")

	got, err := b.Serve()
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	assert.True(t, mustFilespec(t, "a", StaticFile).Equal(mustFilespec(t, "a", StaticFile)))
	assert.False(t, mustFilespec(t, "a", StaticFile).Equal(mustFilespec(t, "a", FileFromTar)))
}

func TestFilespecServe(t *testing.T) {
	t.Parallel()

	f := mustFilespec(t, "hello.txt", echoView)
	got, err := f.Serve()
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", string(got))
}

func TestFilespecString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.txt -> static_file map[path:x/a.txt]",
		mustFilespec(t, "a.txt", StaticFile, Params{ParamPath: "x/a.txt"}).String())
	assert.Equal(t, "b -> view map[]", mustFilespec(t, "b", echoView).String())
}
