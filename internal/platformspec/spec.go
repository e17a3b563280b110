// Package platformspec loads the per-CDATA-kind rules (byte caps,
// allowed at-rules, declaration policy) that drive the sanitizer, plus
// the allowed-font-URL shortcut regex for <link> collection. These are
// read-only tables handed to the pipeline at construction, never
// mutated at runtime.
package platformspec

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
)

// CDATASpec is the rule set for one CDATA kind (style[amp-custom] or
// style[amp-keyframes]).
type CDATASpec struct {
	MaxBytes            int      `json:"max_bytes"`
	AllowedAtRules      []string `json:"allowed_at_rules"`
	AllowedDeclarations []string `json:"allowed_declarations"`
	ValidateKeyframes   bool     `json:"validate_keyframes"`
}

// Spec is the full platform configuration consumed by the pipeline.
type Spec struct {
	Custom            CDATASpec `json:"custom"`
	Keyframes         CDATASpec `json:"keyframes"`
	AllowedFontURLRaw string    `json:"allowed_font_url_regex"`

	allowedFontURL *regexp.Regexp
}

// Load decodes a Spec from JSON and compiles its font-URL regex.
func Load(r io.Reader) (*Spec, error) {
	var s Spec
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("platformspec: decode: %w", err)
	}
	if s.AllowedFontURLRaw != "" {
		re, err := regexp.Compile(s.AllowedFontURLRaw)
		if err != nil {
			return nil, fmt.Errorf("platformspec: compile allowed_font_url_regex: %w", err)
		}
		s.allowedFontURL = re
	}
	return &s, nil
}

// IsAllowedFontURL reports whether href matches the configured
// allowed-font-provider shortcut, meaning the <link> should be left
// untouched rather than processed as a stylesheet.
func (s *Spec) IsAllowedFontURL(href string) bool {
	return s.allowedFontURL != nil && s.allowedFontURL.MatchString(href)
}

// AtRuleSet converts a CDATASpec's allowed at-rule list into the set
// form internal/cssom.Options expects.
func AtRuleSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// DeclarationSet converts a CDATASpec's allowed declaration list into
// the set form internal/cssom.Options.PropertyWhitelist expects. An
// empty slice yields a nil map, so the caller falls back to the
// blacklist instead of an empty (everything-rejected) whitelist.
func DeclarationSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// Default returns the conservative baseline AMP platform spec: the
// custom stylesheet allows the structural at-rules and sets no
// declaration whitelist, so only the default blacklist applies; the
// keyframes stylesheet is keyframes-only.
func Default() *Spec {
	return &Spec{
		Custom: CDATASpec{
			MaxBytes:       75000,
			AllowedAtRules: []string{"media", "supports", "font-face", "keyframes", "-webkit-keyframes"},
		},
		Keyframes: CDATASpec{
			MaxBytes:          500000,
			AllowedAtRules:    []string{"keyframes", "-webkit-keyframes", "media"},
			ValidateKeyframes: true,
		},
		AllowedFontURLRaw: `^https://fonts\.googleapis\.com/`,
	}
}
