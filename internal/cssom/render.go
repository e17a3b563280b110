package cssom

import "strings"

// Render flattens a filtered Document into the spec's Part sequence:
// each top-level KindRule becomes a DeclarationPart (so the tree shaker
// can drop individual selectors later without touching anything else),
// and everything else at the top level is compacted into TextPart
// chunks.
func Render(doc *Document) *Stylesheet {
	out := &Stylesheet{}
	for _, n := range doc.Rules {
		if n.Kind == KindRule {
			out.Parts = append(out.Parts, DeclarationPart{
				Selectors: splitSelectors(n.Prelude),
				Block:     "{" + renderDeclarations(n.Declarations) + "}",
			})
			continue
		}
		out.Parts = append(out.Parts, TextPart{Text: renderNode(n)})
	}
	return out
}

// Flatten concatenates every Part of sheet into final CSS text. Callers
// that run tree shaking should call Shake first — Flatten renders
// whatever DeclarationParts remain using all of their selectors, since
// by the time Flatten runs there's no usedClasses set to consult.
func Flatten(sheet *Stylesheet) string {
	var b strings.Builder
	for _, part := range sheet.Parts {
		switch p := part.(type) {
		case TextPart:
			b.WriteString(p.Text)
		case DeclarationPart:
			texts := make([]string, len(p.Selectors))
			for i, s := range p.Selectors {
				texts[i] = s.Text
			}
			b.WriteString(strings.Join(texts, ","))
			b.WriteString(p.Block)
		}
	}
	return b.String()
}

// renderNode compacts a single node (and, recursively, its children)
// back into CSS text.
func renderNode(n *Node) string {
	switch n.Kind {
	case KindAtImport:
		return "@" + n.Name + " " + n.Prelude + ";"

	case KindUnknownAtRule:
		return n.Raw

	case KindAtRuleSet:
		return "@" + n.Name + " " + n.Prelude + "{" + renderDeclarations(n.Declarations) + "}"

	case KindAtKeyframes, KindAtRuleBlock:
		var b strings.Builder
		b.WriteString("@")
		b.WriteString(n.Name)
		if n.Prelude != "" {
			b.WriteString(" ")
			b.WriteString(n.Prelude)
		}
		b.WriteString("{")
		for _, c := range n.Children {
			b.WriteString(renderNode(c))
		}
		b.WriteString("}")
		return b.String()

	case KindRule:
		return n.Prelude + "{" + renderDeclarations(n.Declarations) + "}"
	}
	return ""
}

// renderDeclarations joins a flat declaration list into "name:value;..."
// text (no trailing separator), reattaching "!important" where set.
func renderDeclarations(decls []Declaration) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteString(";")
		}
		b.WriteString(d.Name)
		b.WriteString(":")
		b.WriteString(d.Value)
		if d.Important {
			b.WriteString("!important")
		}
	}
	return b.String()
}

// splitSelectors splits a comma-separated selector prelude into
// individual SelectorEntry values, each annotated with the set of class
// names it textually depends on (used by the tree shaker and by the
// important-qualifier rewrite, which needs one entry at a time).
func splitSelectors(prelude string) []SelectorEntry {
	raw := strings.Split(prelude, ",")
	entries := make([]SelectorEntry, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		entries = append(entries, SelectorEntry{Text: s, ClassNames: extractClassNames(s)})
	}
	return entries
}

// extractClassNames scans a single selector for ".className" tokens. It
// is a plain lexical scan, not a full selector parser: good enough to
// know which document classes a selector's presence depends on.
// extractClassNames is defined in selector.go (4.E Selector Class
// Extractor).
