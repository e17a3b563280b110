// Package dom wraps golang.org/x/net/html and goquery behind the small
// surface the sanitizer actually needs: document-order querying of
// style sources, attribute read/write, and node creation/removal. It
// exists so the rest of the module depends on a narrow interface
// instead of threading goquery.Selection values everywhere.
package dom

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML tree open for querying and mutation.
type Document struct {
	gq *goquery.Document
}

// Parse reads and parses an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{gq: gq}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render serializes the document back to HTML text.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.gq.Nodes[0]); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Node wraps a single matched element.
type Node struct {
	sel *goquery.Selection
}

func wrapAll(sel *goquery.Selection) []*Node {
	nodes := make([]*Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s})
	})
	return nodes
}

// isBoilerplateOrNonCSSStyle reports whether a <style> node should be
// excluded from discovery: the AMP boilerplate styles (marked
// amp-boilerplate, present verbatim on every AMP page and never part of
// the author's custom CSS) and any <style> whose type attribute names
// something other than text/css.
func isBoilerplateOrNonCSSStyle(n *Node) bool {
	if _, ok := n.Attr("amp-boilerplate"); ok {
		return true
	}
	if t, ok := n.Attr("type"); ok && t != "" && t != "text/css" {
		return true
	}
	return false
}

// StyleElements returns every <style> element in document order, minus
// the AMP boilerplate styles and ones with a type attribute naming
// something other than text/css.
func (d *Document) StyleElements() []*Node {
	var out []*Node
	for _, n := range wrapAll(d.gq.Find("style")) {
		if isBoilerplateOrNonCSSStyle(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// LinkStylesheets returns every <link rel=stylesheet> element in
// document order.
func (d *Document) LinkStylesheets() []*Node {
	return wrapAll(d.gq.Find(`link[rel="stylesheet"]`))
}

// StyleAndLinkSources returns every <style> and <link rel=stylesheet>
// element together, in document order, for the collector's combined
// discovery pass (4.H step 1), excluding boilerplate and non-text/css
// <style> elements the same way StyleElements does.
func (d *Document) StyleAndLinkSources() []*Node {
	var out []*Node
	for _, n := range wrapAll(d.gq.Find(`style, link[rel="stylesheet"]`)) {
		if n.TagName() == "style" && isBoilerplateOrNonCSSStyle(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ElementsWithStyleAttr returns every element carrying a style=
// attribute, in document order.
func (d *Document) ElementsWithStyleAttr() []*Node {
	return wrapAll(d.gq.Find("[style]"))
}

// AmpCustomStyle returns the document's <style amp-custom> element, if
// one is already present, so the emitter can reuse it as the custom-
// style host instead of creating a second one.
func (d *Document) AmpCustomStyle() *Node {
	sel := d.gq.Find("style[amp-custom]").First()
	if sel.Length() == 0 {
		return nil
	}
	return &Node{sel: sel}
}

// UsedClasses scans every class attribute in the document and returns
// the set of class names found, split on whitespace.
func (d *Document) UsedClasses() map[string]struct{} {
	used := make(map[string]struct{})
	d.gq.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("class")
		for _, c := range strings.Fields(v) {
			used[c] = struct{}{}
		}
	})
	return used
}

// Head returns the document's <head> element, creating one as the
// first child of <html> if none exists.
func (d *Document) Head() *Node {
	if sel := d.gq.Find("head").First(); sel.Length() > 0 {
		return &Node{sel: sel}
	}
	htmlNode := d.gq.Find("html").First()
	if htmlNode.Length() == 0 {
		htmlNode = d.gq.Selection
	}
	head := &html.Node{Type: html.ElementNode, Data: "head"}
	if first := htmlNode.Get(0).FirstChild; first != nil {
		htmlNode.Get(0).InsertBefore(head, first)
	} else {
		htmlNode.Get(0).AppendChild(head)
	}
	return &Node{sel: goquery.NewDocumentFromNode(head).Selection}
}

// Body returns the document's <body> element, or nil if absent.
func (d *Document) Body() *Node {
	sel := d.gq.Find("body").First()
	if sel.Length() == 0 {
		return nil
	}
	return &Node{sel: sel}
}

// CreateElement builds a new, unattached element node with the given
// tag name and boolean attributes (present with an empty value), ready
// to be appended via AppendChild.
func CreateElement(tag string, boolAttrs ...string) *Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for _, a := range boolAttrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a, Val: ""})
	}
	return &Node{sel: goquery.NewDocumentFromNode(n).Selection}
}

// Attr reads an attribute value.
func (n *Node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

// SetAttr sets (or overwrites) an attribute.
func (n *Node) SetAttr(name, value string) {
	n.sel.SetAttr(name, value)
}

// RemoveAttr removes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	n.sel.RemoveAttr(name)
}

// TagName returns the element's tag name.
func (n *Node) TagName() string {
	return goquery.NodeName(n.sel)
}

// Text returns the element's concatenated text content.
func (n *Node) Text() string {
	return n.sel.Text()
}

// SetText clears the element's children and inserts a single text node
// containing s.
func (n *Node) SetText(s string) {
	el := n.sel.Get(0)
	for el.FirstChild != nil {
		el.RemoveChild(el.FirstChild)
	}
	el.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// Remove detaches the element from the document.
func (n *Node) Remove() {
	n.sel.Remove()
}

// AppendChild appends child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	n.sel.Get(0).AppendChild(child.sel.Get(0))
}

// Underlying exposes the wrapped x/net/html node for callers (e.g. the
// validation sink) that only need a stable identity to attribute
// errors to.
func (n *Node) Underlying() *html.Node {
	return n.sel.Get(0)
}
