// Package emitter writes the final amp-custom and amp-keyframes style
// elements into the DOM once collection and admission (4.H, 4.I) have
// finished, per 4.J.
package emitter

import (
	"github.com/ampgo/ampcss/internal/budget"
	"github.com/ampgo/ampcss/internal/dom"
	"github.com/ampgo/ampcss/internal/logger"
)

// EmitCustom ensures a <style amp-custom> element exists in <head> and
// replaces its contents with everything admitted into custom.
func EmitCustom(doc *dom.Document, custom *budget.Ledger) {
	styleNode := doc.AmpCustomStyle()
	if styleNode == nil {
		styleNode = dom.CreateElement("style", "amp-custom")
		doc.Head().AppendChild(styleNode)
	}
	styleNode.SetText(custom.Concat())
}

// EmitKeyframes appends a <style amp-keyframes> element as the last
// child of <body> when keyframes has admitted anything. It reports
// logger.ErrMissingBodyElement and drops the keyframes stylesheet
// silently (7, document-level error class) when there is no <body>.
func EmitKeyframes(doc *dom.Document, keyframes *budget.Ledger, sink logger.CSSValidationSink) {
	if keyframes.Empty() {
		return
	}
	body := doc.Body()
	if body == nil {
		if sink == nil {
			sink = logger.DiscardCSSValidation
		}
		sink.ReportCSSError(logger.CSSValidationError{Code: logger.ErrMissingBodyElement})
		return
	}
	styleNode := dom.CreateElement("style", "amp-keyframes")
	styleNode.SetText(keyframes.Concat())
	body.AppendChild(styleNode)
}
