package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampgo/ampcss/internal/resolver"
)

func exists(paths ...string) func(string) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(p string) bool { return set[p] }
}

func TestResolveFindsFileUnderRoot(t *testing.T) {
	r := resolver.New([]string{"/theme"}, exists("/theme/css/site.css"))

	path, err := r.Resolve("/css/site.css")
	require.NoError(t, err)
	assert.Equal(t, "/theme/css/site.css", path)
}

func TestResolveTriesRootsInOrder(t *testing.T) {
	r := resolver.New([]string{"/a", "/b"}, exists("/b/site.css"))

	path, err := r.Resolve("/site.css")
	require.NoError(t, err)
	assert.Equal(t, "/b/site.css", path)
}

func TestResolveRejectsBadExtension(t *testing.T) {
	r := resolver.New([]string{"/theme"}, exists("/theme/site.js"))

	_, err := r.Resolve("/site.js")
	require.Error(t, err)
	rerr, ok := err.(*resolver.Error)
	require.True(t, ok)
	assert.Equal(t, resolver.ErrBadExtension, rerr.Code)
}

func TestResolveReportsNotFound(t *testing.T) {
	r := resolver.New([]string{"/theme"}, exists())

	_, err := r.Resolve("/missing.css")
	require.Error(t, err)
	rerr, ok := err.(*resolver.Error)
	require.True(t, ok)
	assert.Equal(t, resolver.ErrNotFound, rerr.Code)
}

func TestResolveConfinesPathTraversalToRoot(t *testing.T) {
	r := resolver.New([]string{"/theme"}, exists("/etc/passwd.css"))

	_, err := r.Resolve("/../../etc/passwd.css")
	require.Error(t, err)
	rerr, ok := err.(*resolver.Error)
	require.True(t, ok)
	assert.Equal(t, resolver.ErrNotFound, rerr.Code)
}
