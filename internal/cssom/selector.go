package cssom

// extractClassNames implements 4.E: it strips ":not(...)" groups and
// "[...]" attribute-selector groups before scanning for ".<ident>"
// occurrences, so e.g. ".a:not(.b)" depends only on "a", not "b".
func extractClassNames(selector string) map[string]struct{} {
	stripped := stripGroups(selector)

	var classes map[string]struct{}
	i := 0
	for i < len(stripped) {
		if stripped[i] != '.' {
			i++
			continue
		}
		j := i + 1
		for j < len(stripped) && isIdentChar(stripped[j]) {
			j++
		}
		if j > i+1 {
			if classes == nil {
				classes = make(map[string]struct{})
			}
			classes[stripped[i+1:j]] = struct{}{}
		}
		i = j
	}
	return classes
}

// stripGroups removes every ":not(...)" group (case-insensitive, with
// balanced parens) and every "[...]" attribute-selector group from
// selector, replacing each with a single space so surrounding tokens
// don't fuse together.
func stripGroups(selector string) string {
	var b []byte
	i := 0
	for i < len(selector) {
		if hasPseudoNotAt(selector, i) {
			open := i + len(":not(") - 1
			end := matchingParen(selector, open)
			b = append(b, ' ')
			if end < 0 {
				i = len(selector)
			} else {
				i = end + 1
			}
			continue
		}
		if selector[i] == '[' {
			end := matchingBracket(selector, i)
			b = append(b, ' ')
			if end < 0 {
				i = len(selector)
			} else {
				i = end + 1
			}
			continue
		}
		b = append(b, selector[i])
		i++
	}
	return string(b)
}

func hasPseudoNotAt(s string, i int) bool {
	const tag = ":not("
	if i+len(tag) > len(s) {
		return false
	}
	for k := 0; k < len(tag); k++ {
		c, want := s[i+k], tag[k]
		if c != want && !(want >= 'a' && want <= 'z' && c == want-32) {
			return false
		}
	}
	return true
}

func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func matchingBracket(s string, open int) int {
	for i := open; i < len(s); i++ {
		if s[i] == ']' {
			return i
		}
	}
	return -1
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c >= 0x80
}
