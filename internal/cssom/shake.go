package cssom

import "strings"

// Shake implements 4.F: it returns a new Stylesheet, leaving sheet
// unchanged, with selectors dropped whose class-name dependency set is
// not a subset of usedClasses.
// A DeclarationPart left with no retained selectors is removed
// entirely; one with at least one retained selector is kept, rendered
// as its retained selectors comma-joined followed by its block text.
func Shake(sheet *Stylesheet, usedClasses map[string]struct{}) *Stylesheet {
	out := &Stylesheet{Parts: make([]Part, 0, len(sheet.Parts))}
	for _, part := range sheet.Parts {
		dp, ok := part.(DeclarationPart)
		if !ok {
			out.Parts = append(out.Parts, part)
			continue
		}
		retained := make([]string, 0, len(dp.Selectors))
		for _, sel := range dp.Selectors {
			if selectorSurvives(sel, usedClasses) {
				retained = append(retained, sel.Text)
			}
		}
		if len(retained) == 0 {
			continue
		}
		out.Parts = append(out.Parts, TextPart{Text: strings.Join(retained, ",") + dp.Block})
	}
	return out
}

func selectorSurvives(sel SelectorEntry, usedClasses map[string]struct{}) bool {
	for class := range sel.ClassNames {
		if _, ok := usedClasses[class]; !ok {
			return false
		}
	}
	return true
}
