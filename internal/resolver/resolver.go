// Package resolver maps a stylesheet URL to a validated local
// filesystem path. It is the one piece the core spec calls out as an
// external collaborator's responsibility in a full host integration,
// but a small, self-contained implementation is included here so the
// module runs standalone: it validates extensions, rejects path
// traversal, and confines resolution to a configured set of roots.
package resolver

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrCode names the two rejection reasons the sanitizer's collector
// distinguishes (amp_css_bad_file_extension vs amp_css_path_not_found).
type ErrCode int

const (
	ErrBadExtension ErrCode = iota
	ErrNotFound
)

// Error is returned by Resolve; Code lets the caller pick the matching
// logger.CSSErrorCode without string comparison.
type Error struct {
	Code ErrCode
	URL  string
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrBadExtension:
		return fmt.Sprintf("resolver: %q has an unsupported file extension", e.URL)
	default:
		return fmt.Sprintf("resolver: %q could not be resolved to a local file", e.URL)
	}
}

var allowedExtensions = map[string]bool{
	".css":  true,
	".less": true,
	".scss": true,
	".sass": true,
}

// Resolver confines href resolution to a fixed set of local directory
// roots (e.g. a theme's content/, includes/, and admin/ directories).
type Resolver struct {
	roots []string
	stat  func(path string) bool
}

// New builds a Resolver over roots, using exists to check whether a
// resolved path is present on disk (exported so callers can inject a
// stub in tests without touching the real filesystem).
func New(roots []string, exists func(path string) bool) *Resolver {
	return &Resolver{roots: roots, stat: exists}
}

// Resolve validates href's extension, resolves it against each root in
// order, and returns the first existing match confined to that root.
func (r *Resolver) Resolve(href string) (string, error) {
	u, err := url.Parse(href)
	if err == nil && u.Path != "" {
		href = u.Path
	}

	ext := strings.ToLower(filepath.Ext(href))
	if !allowedExtensions[ext] {
		return "", &Error{Code: ErrBadExtension, URL: href}
	}

	clean := filepath.Clean("/" + href)
	for _, root := range r.roots {
		candidate := filepath.Join(root, clean)
		if !strings.HasPrefix(candidate, filepath.Clean(root)+string(filepath.Separator)) {
			continue
		}
		if r.stat(candidate) {
			return candidate, nil
		}
	}
	return "", &Error{Code: ErrNotFound, URL: href}
}
