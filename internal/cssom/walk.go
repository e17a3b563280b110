package cssom

import (
	"strings"

	"github.com/ampgo/ampcss/internal/logger"
)

// Walk applies the policy filter of 4.B in place: disallowed at-rules
// and declarations are dropped and reported to sink; rule sets left
// with no declarations are removed; accepted @font-face rules are
// normalized (fontface.go) and every remaining rule set outside
// @keyframes goes through the important-qualifier transform
// (important.go). At-rule sets such as @font-face are not transformed
// (their !important is reported as illegal instead), and under
// ValidateKeyframes rule sets outside @keyframes pass through unchanged.
// node is the DOM node the stylesheet came from, forwarded verbatim to
// every reported error so the caller can attribute it.
func Walk(doc *Document, opts Options, sink logger.CSSValidationSink, node interface{}) *Document {
	if sink == nil {
		sink = logger.DiscardCSSValidation
	}
	w := &walker{opts: opts, sink: sink, node: node}
	doc.Rules = w.filterList(doc.Rules, false)
	return doc
}

type walker struct {
	opts Options
	sink logger.CSSValidationSink
	node interface{}
}

func (w *walker) report(e logger.CSSValidationError) {
	e.Node = w.node
	w.sink.ReportCSSError(e)
}

// filterList filters one nesting level of Nodes. insideKeyframes is true
// when these nodes are the percentage blocks of an @keyframes rule.
func (w *walker) filterList(nodes []*Node, insideKeyframes bool) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		kept := w.filterNode(n, insideKeyframes)
		if kept == nil {
			continue
		}
		out = append(out, kept)
		if kept.importantClone != nil {
			out = append(out, kept.importantClone)
			kept.importantClone = nil
		}
	}
	return out
}

func (w *walker) filterNode(n *Node, insideKeyframes bool) *Node {
	switch n.Kind {
	case KindAtImport:
		w.report(logger.CSSValidationError{Code: logger.ErrIllegalImportRule, Offset: n.Offset})
		return nil

	case KindAtRuleBlock:
		if !w.opts.AllowedAtRules[n.Name] {
			w.report(logger.CSSValidationError{Code: logger.ErrIllegalAtRule, AtRuleName: n.Name, Offset: n.Offset})
			return nil
		}
		n.Children = w.filterList(n.Children, false)
		return n

	case KindAtKeyframes:
		if !w.opts.AllowedAtRules["keyframes"] {
			w.report(logger.CSSValidationError{Code: logger.ErrIllegalAtRule, AtRuleName: n.Name, Offset: n.Offset})
			return nil
		}
		n.Children = w.filterList(n.Children, true)
		return n

	case KindAtRuleSet:
		if !w.opts.AllowedAtRules[n.Name] {
			w.report(logger.CSSValidationError{Code: logger.ErrIllegalAtRule, AtRuleName: n.Name, Offset: n.Offset})
			return nil
		}
		n.Declarations = w.filterDeclarations(n.Declarations, true)
		if len(n.Declarations) == 0 {
			return nil
		}
		if n.Name == "font-face" {
			normalizeFontFace(n, w.opts)
		}
		return n

	case KindUnknownAtRule:
		w.report(logger.CSSValidationError{Code: logger.ErrIllegalAtRule, AtRuleName: n.Name, Offset: n.Offset})
		return nil

	case KindRule:
		if w.opts.ValidateKeyframes && !insideKeyframes {
			// A keyframes-only sheet (4.B, "outside @keyframes unless
			// validate_keyframes") passes stray top-level rules through
			// untouched instead of filtering/transforming them.
			return n
		}
		n.Declarations = w.filterDeclarations(n.Declarations, insideKeyframes)
		if len(n.Declarations) == 0 {
			return nil
		}
		if !insideKeyframes {
			if w.opts.ConvertWidthToMaxWidth {
				convertWidthToMaxWidth(n)
			}
			return applyImportantTransform(n)
		}
		return n
	}

	w.report(logger.CSSValidationError{Code: logger.ErrUnrecognizedCSS, Offset: n.Offset})
	return nil
}

// filterDeclarations applies the property whitelist/blacklist. Inside a
// keyframes block or an at-rule set such as @font-face, !important is
// always illegal (4.D); elsewhere it is left alone here and handled by
// the important-qualifier transform.
func (w *walker) filterDeclarations(decls []Declaration, blockImportant bool) []Declaration {
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		name := vendorStrip(d.Name)
		allowed := true
		if len(w.opts.PropertyWhitelist) > 0 {
			allowed = w.opts.PropertyWhitelist[name]
		} else if w.opts.PropertyBlacklist[name] {
			allowed = false
		}
		if !allowed {
			w.report(logger.CSSValidationError{
				Code:          logger.ErrIllegalProperty,
				PropertyName:  d.Name,
				PropertyValue: d.Value,
				Offset:        d.Offset,
			})
			continue
		}
		if blockImportant && d.Important {
			w.report(logger.CSSValidationError{
				Code:          logger.ErrIllegalImportant,
				PropertyName:  d.Name,
				PropertyValue: d.Value,
				Offset:        d.Offset,
			})
			d.Important = false
		}
		out = append(out, d)
	}
	return out
}

// vendorStrip removes a leading vendor prefix like "-webkit-" so policy
// checks key on the unprefixed property name.
func vendorStrip(name string) string {
	if !strings.HasPrefix(name, "-") {
		return name
	}
	rest := name[1:]
	idx := strings.Index(rest, "-")
	if idx < 0 {
		return name
	}
	return rest[idx+1:]
}

func convertWidthToMaxWidth(n *Node) {
	for i := range n.Declarations {
		if n.Declarations[i].Name == "width" {
			n.Declarations[i].Name = "max-width"
		}
	}
}
