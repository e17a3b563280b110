// Package collector implements the stylesheet discovery and processing
// pass of 4.H: it walks the DOM for <style>, <link rel=stylesheet>, and
// style= sources, routes each through the parse cache and policy
// filter, admits the result under a byte budget, and rewrites the DOM
// on success.
package collector

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/ampgo/ampcss/internal/budget"
	"github.com/ampgo/ampcss/internal/cssom"
	"github.com/ampgo/ampcss/internal/dom"
	"github.com/ampgo/ampcss/internal/logger"
	"github.com/ampgo/ampcss/internal/parsecache"
	"github.com/ampgo/ampcss/internal/platformspec"
	"github.com/ampgo/ampcss/internal/resolver"
)

// FileReader reads the contents of a resolved local path.
type FileReader interface {
	ReadFile(path string) (string, error)
}

// Pipeline holds everything the collector needs to process one
// document: the parse cache (process-wide, safe to share across
// documents), the platform rules, the URL resolver, and the
// error/telemetry sinks.
type Pipeline struct {
	Cache    *parsecache.Cache
	Spec     *platformspec.Spec
	Resolver *resolver.Resolver
	Files    FileReader
	Sink     logger.CSSValidationSink
}

// Run executes the full collector pass against doc: discovery,
// processing, and finalize (emission is left to the caller, which
// holds the two Ledgers this returns).
func (p *Pipeline) Run(doc *dom.Document) (custom, keyframes *budget.Ledger) {
	sink := p.Sink
	if sink == nil {
		sink = logger.DiscardCSSValidation
	}

	custom = budget.NewLedger(p.Spec.Custom.MaxBytes)
	keyframes = budget.NewLedger(p.Spec.Keyframes.MaxBytes)
	usedClasses := doc.UsedClasses()

	for _, src := range doc.StyleAndLinkSources() {
		switch src.TagName() {
		case "style":
			p.processStyleElement(src, custom, keyframes, usedClasses, sink)
		case "link":
			p.processLinkElement(src, custom, usedClasses, sink)
		}
	}

	for _, el := range doc.ElementsWithStyleAttr() {
		p.processStyleAttr(el, custom, sink)
	}

	return custom, keyframes
}

func (p *Pipeline) processStyleElement(node *dom.Node, custom, keyframes *budget.Ledger, usedClasses map[string]struct{}, sink logger.CSSValidationSink) {
	_, isAmpCustomHost := node.Attr("amp-custom")
	_, isKeyframes := node.Attr("amp-keyframes")

	text := node.Text()
	cdata := p.Spec.Custom
	ledger := custom
	if isKeyframes {
		cdata = p.Spec.Keyframes
		ledger = keyframes
	}

	opts := cssom.Options{
		AllowedAtRules:           platformspec.AtRuleSet(cdata.AllowedAtRules),
		PropertyWhitelist:        platformspec.DeclarationSet(cdata.AllowedDeclarations),
		PropertyBlacklist:        cssom.DefaultBlacklist(),
		ValidateKeyframes:        cdata.ValidateKeyframes,
		ClassSelectorTreeShaking: !cdata.ValidateKeyframes,
	}

	sheet := p.runPipeline(text, opts, sink, node.Underlying())
	admitted, overage := admit(sheet, opts, usedClasses, ledger)
	if !admitted {
		sink.ReportCSSError(logger.CSSValidationError{Code: logger.ErrTooMuchCSS, OverageBytes: overage, Node: node.Underlying()})
	}

	if isAmpCustomHost {
		return
	}
	node.Remove()
}

func (p *Pipeline) processLinkElement(node *dom.Node, custom *budget.Ledger, usedClasses map[string]struct{}, sink logger.CSSValidationSink) {
	href, _ := node.Attr("href")
	if p.Spec.IsAllowedFontURL(href) {
		return
	}

	path, err := p.Resolver.Resolve(href)
	if err != nil {
		code := logger.ErrPathNotFound
		if rerr, ok := err.(*resolver.Error); ok && rerr.Code == resolver.ErrBadExtension {
			code = logger.ErrBadFileExtension
		}
		sink.ReportCSSError(logger.CSSValidationError{Code: code, Node: node.Underlying()})
		node.Remove()
		return
	}

	text, err := p.Files.ReadFile(path)
	if err != nil {
		sink.ReportCSSError(logger.CSSValidationError{Code: logger.ErrStylesheetFileReadError, Message: err.Error(), Node: node.Underlying()})
		node.Remove()
		return
	}

	if media, ok := node.Attr("media"); ok && media != "" && media != "all" {
		text = "@media " + media + "{" + text + "}"
	}

	opts := cssom.Options{
		AllowedAtRules:           platformspec.AtRuleSet(p.Spec.Custom.AllowedAtRules),
		PropertyWhitelist:        platformspec.DeclarationSet(p.Spec.Custom.AllowedDeclarations),
		PropertyBlacklist:        cssom.DefaultBlacklist(),
		ClassSelectorTreeShaking: true,
		StylesheetURL:            href,
		StylesheetPath:           path,
	}

	sheet := p.runPipeline(text, opts, sink, node.Underlying())
	admitted, overage := admit(sheet, opts, usedClasses, custom)
	if !admitted {
		sink.ReportCSSError(logger.CSSValidationError{Code: logger.ErrTooMuchCSS, OverageBytes: overage, Node: node.Underlying()})
	}
	node.Remove()
}

func (p *Pipeline) processStyleAttr(node *dom.Node, custom *budget.Ledger, sink logger.CSSValidationSink) {
	value, _ := node.Attr("style")
	if value == "" {
		return
	}
	class := "amp-wp-" + inlineStyleHash(value)
	src := "." + class + "{" + value + "}"

	opts := cssom.Options{
		AllowedAtRules:           platformspec.AtRuleSet(p.Spec.Custom.AllowedAtRules),
		PropertyWhitelist:        platformspec.DeclarationSet(p.Spec.Custom.AllowedDeclarations),
		PropertyBlacklist:        cssom.DefaultBlacklist(),
		ConvertWidthToMaxWidth:   true,
		ClassSelectorTreeShaking: false,
	}

	sheet := p.runPipeline(src, opts, sink, node.Underlying())
	text := cssom.Flatten(sheet)
	if text == "" {
		node.RemoveAttr("style")
		return
	}

	ok, overage := custom.Admit(text)
	if !ok {
		sink.ReportCSSError(logger.CSSValidationError{Code: logger.ErrTooMuchCSS, OverageBytes: overage, Node: node.Underlying()})
		node.RemoveAttr("style")
		return
	}

	node.RemoveAttr("style")
	existing, _ := node.Attr("class")
	if existing != "" {
		existing += " "
	}
	node.SetAttr("class", existing+class)
}

// admit applies tree shaking (when enabled) and hands the flattened
// text to ledger.
func admit(sheet *cssom.Stylesheet, opts cssom.Options, usedClasses map[string]struct{}, ledger *budget.Ledger) (ok bool, overageBytes int) {
	if opts.ClassSelectorTreeShaking {
		sheet = cssom.Shake(sheet, usedClasses)
	}
	return ledger.Admit(cssom.Flatten(sheet))
}

// runPipeline is the 4.G cache lookup wrapper around parse+filter: on a
// cache hit the recorded errors are replayed against node; on a miss it
// parses, filters, stores, and reports fresh errors.
func (p *Pipeline) runPipeline(text string, opts cssom.Options, sink logger.CSSValidationSink, node interface{}) *cssom.Stylesheet {
	key := parsecache.Key(text, opts)
	if entry, ok := p.Cache.Get(key); ok {
		for _, e := range entry.Errors {
			e.Node = node
			e.Source = text
			sink.ReportCSSError(e)
		}
		return entry.Sheet
	}

	doc, err := cssom.Parse(text)
	if err != nil {
		perr := logger.CSSValidationError{Code: logger.ErrCSSParseError, Message: err.Error()}
		empty := &cssom.Stylesheet{}
		p.Cache.Set(key, &parsecache.Entry{Sheet: empty, Errors: []logger.CSSValidationError{perr}})
		perr.Node = node
		perr.Source = text
		sink.ReportCSSError(perr)
		return empty
	}

	var errs []logger.CSSValidationError
	collect := logger.CSSValidationSinkFunc(func(e logger.CSSValidationError) { errs = append(errs, e) })
	doc = cssom.Walk(doc, opts, collect, nil)
	sheet := cssom.Render(doc)

	p.Cache.Set(key, &parsecache.Entry{Sheet: sheet, Errors: errs})
	for _, e := range errs {
		e.Node = node
		e.Source = text
		sink.ReportCSSError(e)
	}
	return sheet
}

func inlineStyleHash(value string) string {
	sum := md5.Sum([]byte(value))
	return hex.EncodeToString(sum[:])[:7]
}
