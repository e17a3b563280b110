package cssom

import "strings"

// normalizeFontFace implements 4.C against an accepted @font-face node's
// "src" declarations: relative url(...) components are resolved against
// the stylesheet's directory, and url(data:...) components are rewritten
// to a guessed sibling file URL when a non-data URL is present in the
// same declaration.
func normalizeFontFace(n *Node, opts Options) {
	baseDir := stylesheetBaseDir(opts.StylesheetURL)
	for i := range n.Declarations {
		if n.Declarations[i].Name != "src" {
			continue
		}
		n.Declarations[i].Value = rewriteFontFaceSrc(n.Declarations[i].Value, baseDir)
	}
}

// stylesheetBaseDir strips the last path segment and any query/fragment
// from a stylesheet URL, yielding the directory it's served from.
func stylesheetBaseDir(stylesheetURL string) string {
	if stylesheetURL == "" {
		return ""
	}
	u := stylesheetURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		return u[:i+1]
	}
	return ""
}

// rewriteFontFaceSrc scans value for url(...) components, resolves
// relative ones against baseDir, and rewrites data: URLs to a guessed
// sibling file URL using the first non-data URL in the same value.
func rewriteFontFaceSrc(value, baseDir string) string {
	urls := scanURLs(value)
	if len(urls) == 0 {
		return value
	}

	resolved := make([]string, len(urls))
	firstNonData := -1
	for i, u := range urls {
		if isDataURL(u.inner) {
			resolved[i] = u.inner
			continue
		}
		resolved[i] = resolveRelativeURL(u.inner, baseDir)
		if firstNonData == -1 {
			firstNonData = i
		}
	}

	if firstNonData != -1 {
		for i, u := range urls {
			if !isDataURL(u.inner) {
				continue
			}
			subtype, ok := dataURLSubtype(u.inner)
			if !ok {
				continue
			}
			resolved[i] = withExtension(resolved[firstNonData], subtype)
		}
	}

	var b strings.Builder
	last := 0
	for i, u := range urls {
		b.WriteString(value[last:u.start])
		b.WriteString("url(")
		b.WriteString(resolved[i])
		b.WriteString(")")
		last = u.end
	}
	b.WriteString(value[last:])
	return b.String()
}

type urlMatch struct {
	start, end int // byte range of the whole "url(...)" in the source text
	inner      string
}

// scanURLs finds every "url(...)" occurrence in s, honoring quoted
// interiors so a quoted ")" doesn't end the match early.
func scanURLs(s string) []urlMatch {
	var matches []urlMatch
	lower := strings.ToLower(s)
	i := 0
	for {
		idx := strings.Index(lower[i:], "url(")
		if idx < 0 {
			break
		}
		start := i + idx
		j := start + len("url(")
		quote := byte(0)
		if j < len(s) && (s[j] == '\'' || s[j] == '"') {
			quote = s[j]
			j++
		}
		innerStart := j
		for j < len(s) {
			if quote != 0 && s[j] == quote {
				j++
				break
			}
			if quote == 0 && s[j] == ')' {
				break
			}
			j++
		}
		innerEnd := j
		if quote != 0 {
			innerEnd = j - 1
		}
		for j < len(s) && s[j] != ')' {
			j++
		}
		end := j
		if j < len(s) {
			end = j + 1
		}
		matches = append(matches, urlMatch{start: start, end: end, inner: strings.TrimSpace(s[innerStart:innerEnd])})
		i = end
		if i <= start {
			break
		}
	}
	return matches
}

func isDataURL(u string) bool {
	return strings.HasPrefix(u, "data:")
}

// dataURLSubtype extracts the MIME subtype from a data: URL, e.g.
// "data:font/woff2;base64,AAA" -> "woff2". A leading hyphenated token
// prefix on the subtype (e.g. "x-font-woff" -> "font-woff") is stripped.
func dataURLSubtype(u string) (string, bool) {
	rest := strings.TrimPrefix(u, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", false
	}
	mime := rest[:comma]
	if semi := strings.IndexByte(mime, ';'); semi >= 0 {
		mime = mime[:semi]
	}
	slash := strings.IndexByte(mime, '/')
	if slash < 0 {
		return "", false
	}
	subtype := mime[slash+1:]
	if subtype == "" {
		return "", false
	}
	if dash := strings.IndexByte(subtype, '-'); dash >= 0 {
		subtype = subtype[dash+1:]
	}
	return subtype, true
}

// withExtension replaces the file extension of a path-like URL (no
// query/fragment awareness needed here; font URLs don't carry them)
// with ext.
func withExtension(u, ext string) string {
	dot := strings.LastIndexByte(u, '.')
	slash := strings.LastIndexByte(u, '/')
	if dot <= slash {
		return u + "." + ext
	}
	return u[:dot+1] + ext
}

// resolveRelativeURL resolves u against baseDir when u has no scheme and
// is not already an absolute path. Per the open question in the design
// notes, an absolute-path URL ("/x.woff") is treated as already
// resolved and left untouched.
func resolveRelativeURL(u, baseDir string) string {
	if u == "" || baseDir == "" {
		return u
	}
	if strings.Contains(u, "://") || strings.HasPrefix(u, "//") || strings.HasPrefix(u, "/") {
		return u
	}
	trimmed := strings.TrimPrefix(u, "./")
	return baseDir + trimmed
}
