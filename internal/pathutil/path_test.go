package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		elem []string
		want string
	}{
		{"no elements", nil, ""},
		{"single", []string{"a"}, "a"},
		{"empty base", []string{"", "a/b"}, "a/b"},
		{"simple", []string{"out", "a"}, "out/a"},
		{"base with trailing slash", []string{"out/", "a"}, "out/a"},
		{"absolute element resets", []string{"out", "/abs/a"}, "/abs/a"},
		{"trailing empty element", []string{"out", ""}, "out/"},
		{"many", []string{"a", "b", "c"}, "a/b/c"},
		{"not cleaned", []string{"a/../b", "./c"}, "a/../b/./c"},
		{"double slash preserved inside element", []string{"a//b", "c"}, "a//b/c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.elem...))
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		n      int
		want   []string
		wantOK bool
	}{
		{"strip one", "a/b/c.txt", 1, []string{"b", "c.txt"}, true},
		{"strip two", "a/b/c.txt", 2, []string{"c.txt"}, true},
		{"strip all", "a/b/c.txt", 3, nil, false},
		{"strip more than available", "a", 5, nil, false},
		{"single component", "a", 1, nil, false},
		{"trailing slash leaves empty component", "a/", 1, []string{""}, true},
		{"leading slash counts as component", "/a/b", 1, []string{"a", "b"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Strip(tt.input, tt.n)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
