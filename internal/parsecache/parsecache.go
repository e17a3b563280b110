// Package parsecache memoizes (stylesheet text, options) -> parsed and
// policy-filtered result, so identical stylesheets encountered more
// than once in a document (or across documents, since the cache is
// process-wide) are parsed exactly once. Entries are immutable once
// stored, so concurrent get/set from multiple documents is safe: a
// race between two writers for the same key simply has both write the
// same value.
package parsecache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ampgo/ampcss/internal/cssom"
	"github.com/ampgo/ampcss/internal/logger"
)

// Entry is the cached result of running a stylesheet through parse and
// policy filtering: the rendered Stylesheet plus the validation errors
// that were recorded while producing it (replayed to the caller's sink
// on every hit, per 4.G).
type Entry struct {
	Sheet  *cssom.Stylesheet
	Errors []logger.CSSValidationError
}

// Cache is a process-wide, concurrency-safe parse cache.
type Cache struct {
	entries sync.Map // string -> *Entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{}
}

// Key computes the cache key for (text, opts). Per 4.G, the tree-
// shaking flag is deliberately excluded: shaking runs after lookup
// against the current document's class set, which isn't part of the
// key.
func Key(text string, opts cssom.Options) string {
	var b strings.Builder
	b.WriteString("text=")
	b.WriteString(text)
	b.WriteString("\x00allowed_at_rules=")
	writeSortedSet(&b, opts.AllowedAtRules)
	b.WriteString("\x00property_whitelist=")
	writeSortedSet(&b, opts.PropertyWhitelist)
	b.WriteString("\x00property_blacklist=")
	writeSortedSet(&b, opts.PropertyBlacklist)
	fmt.Fprintf(&b, "\x00validate_keyframes=%v", opts.ValidateKeyframes)
	fmt.Fprintf(&b, "\x00convert_width_to_max_width=%v", opts.ConvertWidthToMaxWidth)
	b.WriteString("\x00stylesheet_url=")
	b.WriteString(opts.StylesheetURL)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeSortedSet(b *strings.Builder, set map[string]bool) {
	keys := make([]string, 0, len(set))
	for k, v := range set {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	b.WriteString(strings.Join(keys, ","))
}

// Get returns the cached entry for key, if present.
func (c *Cache) Get(key string) (*Entry, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*Entry), true
}

// Set stores e under key. Safe to call concurrently; last write wins,
// and every writer for a given key is expected to produce the same
// value.
func (c *Cache) Set(key string, e *Entry) {
	c.entries.Store(key, e)
}
