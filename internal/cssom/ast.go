package cssom

// NodeKind tags the variant of a parsed CSS list item, mirroring the node
// kinds the spec calls out for the walker to dispatch on: declaration
// block, at-rule-set, at-rule-block-list, import, keyframes, and unknown.
type NodeKind int

const (
	// KindRule is a plain "selector-list { declarations }" item — the
	// spec's "declaration block" / "rule" / "selector" concept.
	KindRule NodeKind = iota

	// KindAtImport is an "@import ...;" item.
	KindAtImport

	// KindAtKeyframes is an "@keyframes name { ...percentage blocks... }"
	// item.
	KindAtKeyframes

	// KindAtRuleBlock is a block-list at-rule that contains nested rules,
	// e.g. "@media (...) { ... }" or "@supports (...) { ... }".
	KindAtRuleBlock

	// KindAtRuleSet is a prelude-only at-rule whose body is itself a flat
	// declaration list, e.g. "@font-face { ... }".
	KindAtRuleSet

	// KindUnknownAtRule is any other at-rule without a body. (At-rules
	// with a body become KindAtRuleBlock or KindAtRuleSet, and are
	// rejected by name when not allowed.)
	KindUnknownAtRule
)

// Declaration is one "name: value" pair inside a rule, at-rule-set, or
// keyframe percentage block. Name and Value are already reduced to
// compact text (see joinTokens in parse.go); Important is tracked separately so the
// important-qualifier transformer (4.D) can strip/move it without
// re-parsing the value text.
type Declaration struct {
	Name      string
	Value     string
	Important bool

	// Offset is this declaration's approximate byte position within the
	// stylesheet source it was parsed from, for error attribution.
	Offset int
}

// Node is one item of a CSS list — either top-level or nested inside an
// at-rule block. The fields that apply depend on Kind; unused fields are
// left zero.
type Node struct {
	Kind NodeKind

	// Offset is this node's approximate byte position within the
	// stylesheet source it was parsed from, for error attribution.
	Offset int

	// Name is the at-rule name without "@" (e.g. "media", "font-face",
	// "keyframes", "import"). Empty for KindRule.
	Name string

	// Prelude is the raw text before "{" (the selector list for
	// KindRule, the media/supports query for KindAtRuleBlock, the
	// "name" for KindAtKeyframes, the URL text for KindAtImport).
	Prelude string

	// Declarations holds the flat declaration list for KindRule and
	// KindAtRuleSet.
	Declarations []Declaration

	// Children holds nested Nodes for KindAtRuleBlock (nested rules and
	// at-rules) and KindAtKeyframes (one Node per percentage block,
	// itself using KindRule with Prelude holding the percentage list).
	Children []*Node

	// Raw is used for KindUnknownAtRule ("@name prelude;" text, kept only
	// so an already-accepted
	// at-rule can still be printed back before being rejected).
	Raw string

	// importantClone holds the ":root:not(#FK_ID) ..." rule the
	// important-qualifier transform (4.D) produces for this node, to be
	// spliced in immediately after it. Nil when the node had no
	// !important declarations.
	importantClone *Node
}

// Document is the full parsed CSS list before filtering. Parse populates
// this; Walk (in walk.go) mutates it in place against an Options policy.
type Document struct {
	Rules []*Node
}

// SelectorEntry is one selector out of a Node's comma-separated prelude,
// paired with the set of class names it depends on (4.E). ClassNames is
// nil when the selector is unconditionally retained (depends on no
// classes at all).
type SelectorEntry struct {
	Text       string
	ClassNames map[string]struct{}
}

// Part is one element of the flattened, post-filter representation the
// spec's data model describes: either an opaque text chunk or a
// declaration tuple. This is what Render (render.go) produces from a
// filtered Document, and what the tree shaker (shake.go) consumes.
type Part interface {
	isPart()
}

// TextPart is a literal, already-compacted CSS chunk: at-rule headers,
// @media frames, @keyframes blocks, and anything else that isn't a
// top-level declaration block.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// DeclarationPart is a top-level declaration block split into its
// selector-to-class-set map and its declaration block text (without the
// selector list), so the tree shaker can drop selectors without
// re-parsing.
type DeclarationPart struct {
	Selectors []SelectorEntry
	Block     string
}

func (DeclarationPart) isPart() {}

// Stylesheet is the ordered sequence of Parts produced by parsing,
// filtering, and rendering one stylesheet source.
type Stylesheet struct {
	Parts []Part
}
