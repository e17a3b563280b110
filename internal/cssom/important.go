package cssom

// applyImportantTransform peels !important declarations off a rule set
// into a clone whose selectors are boosted with ":root:not(#FK_ID) ",
// stashing the clone on n.importantClone for filterList to splice in
// immediately after n.
func applyImportantTransform(n *Node) *Node {
	var important, rest []Declaration
	for _, d := range n.Declarations {
		if d.Important {
			d.Important = false
			important = append(important, d)
		} else {
			rest = append(rest, d)
		}
	}
	if len(important) == 0 {
		return n
	}
	n.Declarations = rest
	clone := &Node{
		Kind:         KindRule,
		Offset:       n.Offset,
		Prelude:      boostSpecificity(n.Prelude),
		Declarations: important,
	}
	n.importantClone = clone
	return n
}

// boostSpecificity rewrites a comma-separated selector list so each
// selector is prefixed with ":root:not(#FK_ID) ", per 4.D.
func boostSpecificity(prelude string) string {
	entries := splitSelectors(prelude)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, ":root:not(#FK_ID) "+e.Text)
	}
	return joinSelectorTexts(out)
}

func joinSelectorTexts(selectors []string) string {
	if len(selectors) == 0 {
		return ""
	}
	out := selectors[0]
	for _, s := range selectors[1:] {
		out += "," + s
	}
	return out
}
