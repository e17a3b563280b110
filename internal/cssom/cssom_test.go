package cssom

import (
	"strings"
	"testing"

	"github.com/ampgo/ampcss/internal/logger"
)

func pipeline(t *testing.T, src string, opts Options) (*Stylesheet, []logger.CSSValidationError) {
	t.Helper()
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	var errs []logger.CSSValidationError
	sink := logger.CSSValidationSinkFunc(func(e logger.CSSValidationError) {
		errs = append(errs, e)
	})
	doc = Walk(doc, opts, sink, nil)
	return Render(doc), errs
}

func TestTreeShakeDropsSelectorsWithMissingClasses(t *testing.T) {
	sheet, _ := pipeline(t, ".foo{color:red}.bar{color:blue}", Options{
		AllowedAtRules: map[string]bool{},
	})
	shaken := Shake(sheet, map[string]struct{}{"foo": {}})
	if got, want := Flatten(shaken), ".foo{color:red}"; got != want {
		t.Fatalf("Flatten(Shake(...)) = %q, want %q", got, want)
	}
}

func TestUnknownAtRuleIsRejected(t *testing.T) {
	sheet, errs := pipeline(t, "@supports (display:grid){.a{display:grid}}", Options{
		AllowedAtRules: map[string]bool{},
	})
	if got := Flatten(sheet); got != "" {
		t.Fatalf("Flatten(sheet) = %q, want empty", got)
	}
	if len(errs) != 1 || errs[0].Code != logger.ErrIllegalAtRule || errs[0].AtRuleName != "supports" {
		t.Fatalf("errs = %+v, want one illegal_css_at_rule for supports", errs)
	}
}

func TestImportIsAlwaysRejected(t *testing.T) {
	sheet, errs := pipeline(t, "@import url(x.css);.a{color:red}", Options{
		AllowedAtRules: map[string]bool{},
	})
	if got, want := Flatten(sheet), ".a{color:red}"; got != want {
		t.Fatalf("Flatten(sheet) = %q, want %q", got, want)
	}
	if len(errs) != 1 || errs[0].Code != logger.ErrIllegalImportRule {
		t.Fatalf("errs = %+v, want one illegal_css_import_rule", errs)
	}
}

func TestImportantIsMovedToBoostedClone(t *testing.T) {
	sheet, _ := pipeline(t, ".a{color:red!important;font-size:10px}", Options{
		AllowedAtRules: map[string]bool{},
	})
	want := ".a{font-size:10px}:root:not(#FK_ID) .a{color:red}"
	if got := Flatten(sheet); got != want {
		t.Fatalf("Flatten(sheet) = %q, want %q", got, want)
	}
}

func TestFontFaceDataURLRewrite(t *testing.T) {
	src := "@font-face{src:url(data:font/woff2;base64,AAAA) format('woff2'),url('./fonts/x.ttf') format('truetype')}"
	sheet, _ := pipeline(t, src, Options{
		AllowedAtRules: map[string]bool{"font-face": true},
		StylesheetURL:  "https://h/css/s.css",
	})
	got := Flatten(sheet)
	if !containsAll(got, []string{"url(https://h/css/fonts/x.woff2)", "url(https://h/css/fonts/x.ttf)"}) {
		t.Fatalf("Flatten(sheet) = %q, missing expected rewritten URLs", got)
	}
}

func TestPropertyBlacklistRejectsDeclaration(t *testing.T) {
	sheet, errs := pipeline(t, ".a{behavior:url(x.htc);color:red}", Options{
		AllowedAtRules:    map[string]bool{},
		PropertyBlacklist: DefaultBlacklist(),
	})
	if got, want := Flatten(sheet), ".a{color:red}"; got != want {
		t.Fatalf("Flatten(sheet) = %q, want %q", got, want)
	}
	if len(errs) != 1 || errs[0].Code != logger.ErrIllegalProperty || errs[0].PropertyName != "behavior" {
		t.Fatalf("errs = %+v, want one illegal_css_property for behavior", errs)
	}
}

func TestPropertyBlacklistRejectsVendorPrefixedBinding(t *testing.T) {
	sheet, errs := pipeline(t, ".a{-moz-binding:url(x.xml#y);color:red}", Options{
		AllowedAtRules:    map[string]bool{},
		PropertyBlacklist: DefaultBlacklist(),
	})
	if got, want := Flatten(sheet), ".a{color:red}"; got != want {
		t.Fatalf("Flatten(sheet) = %q, want %q", got, want)
	}
	if len(errs) != 1 || errs[0].Code != logger.ErrIllegalProperty || errs[0].PropertyName != "-moz-binding" {
		t.Fatalf("errs = %+v, want one illegal_css_property for -moz-binding", errs)
	}
}

func TestValidateKeyframesPassesTopLevelRulesThrough(t *testing.T) {
	sheet, errs := pipeline(t, ".a{width:10px!important}@keyframes spin{from{opacity:0!important}to{opacity:1}}", Options{
		AllowedAtRules:         map[string]bool{"keyframes": true},
		ConvertWidthToMaxWidth: true,
		ValidateKeyframes:      true,
	})
	want := ".a{width:10px!important}@keyframes spin{from{opacity:0}to{opacity:1}}"
	if got := Flatten(sheet); got != want {
		t.Fatalf("Flatten(sheet) = %q, want %q", got, want)
	}
	if len(errs) != 1 || errs[0].Code != logger.ErrIllegalImportant {
		t.Fatalf("errs = %+v, want only the keyframes illegal_css_important", errs)
	}
}

func TestConvertWidthToMaxWidth(t *testing.T) {
	sheet, _ := pipeline(t, ".a{width:10px}", Options{
		AllowedAtRules:         map[string]bool{},
		ConvertWidthToMaxWidth: true,
	})
	if got, want := Flatten(sheet), ".a{max-width:10px}"; got != want {
		t.Fatalf("Flatten(sheet) = %q, want %q", got, want)
	}
}

func TestKeyframesImportantIsIllegal(t *testing.T) {
	sheet, errs := pipeline(t, "@keyframes spin{from{opacity:0!important}to{opacity:1}}", Options{
		AllowedAtRules: map[string]bool{"keyframes": true},
	})
	if got, want := Flatten(sheet), "@keyframes spin{from{opacity:0}to{opacity:1}}"; got != want {
		t.Fatalf("Flatten(sheet) = %q, want %q", got, want)
	}
	if len(errs) != 1 || errs[0].Code != logger.ErrIllegalImportant {
		t.Fatalf("errs = %+v, want one illegal_css_important", errs)
	}
}

func TestSelectorClassExtractionSkipsNotAndAttributeGroups(t *testing.T) {
	classes := extractClassNames(".a:not(.b)[data-x=\".c\"]")
	if _, ok := classes["a"]; !ok {
		t.Fatalf("expected class 'a' present, got %+v", classes)
	}
	if _, ok := classes["b"]; ok {
		t.Fatalf("expected class 'b' to be stripped via :not(), got %+v", classes)
	}
	if _, ok := classes["c"]; ok {
		t.Fatalf("expected class 'c' to be stripped via attribute group, got %+v", classes)
	}
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
