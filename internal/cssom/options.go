package cssom

// Options is the explicit struct form of the "parse options" key set from
// the spec's data model: every field here corresponds to exactly one
// recognized option key, so there is no string-typed bag of options that
// could silently accept an unrecognized key.
type Options struct {
	// AllowedAtRules is the set of at-rule names (without the leading "@")
	// permitted at this parse, e.g. {"media", "supports", "font-face",
	// "keyframes"}.
	AllowedAtRules map[string]bool

	// PropertyWhitelist, when non-empty, takes precedence over
	// PropertyBlacklist: only these declaration names are allowed.
	PropertyWhitelist map[string]bool

	// PropertyBlacklist is checked when PropertyWhitelist is empty, keyed
	// on the vendor-stripped property name (see vendorStrip). Defaults to
	// {"behavior", "binding"} via DefaultBlacklist.
	PropertyBlacklist map[string]bool

	// ValidateKeyframes treats the whole stylesheet as an amp-keyframes
	// sheet: declaration blocks inside @keyframes are still filtered by
	// the normal declaration policy, but top-level declaration blocks
	// outside @keyframes are passed through unmutated rather than
	// filtered or important-transformed.
	ValidateKeyframes bool

	// ClassSelectorTreeShaking, when true, drops selectors after parsing
	// whose required class names are absent from the document.
	ClassSelectorTreeShaking bool

	// ConvertWidthToMaxWidth rewrites a "width" declaration to
	// "max-width" wherever it appears in a (non-keyframe) declaration
	// block.
	ConvertWidthToMaxWidth bool

	// StylesheetURL and StylesheetPath give the origin of an external
	// stylesheet; the font-face normalizer uses StylesheetURL's
	// directory as the base for relative url(...) resolution.
	StylesheetURL  string
	StylesheetPath string
}

// DefaultBlacklist returns the spec's default property_blacklist, keyed on
// the vendor-stripped form so it matches what filterDeclarations looks up
// (vendorStrip("-moz-binding") == "binding").
func DefaultBlacklist() map[string]bool {
	return map[string]bool{
		"behavior": true,
		"binding":  true,
	}
}
