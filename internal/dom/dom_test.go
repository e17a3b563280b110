package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampgo/ampcss/internal/dom"
)

func TestStyleAndLinkSourcesInDocumentOrder(t *testing.T) {
	doc, err := dom.ParseString(`<html><head>
		<link rel="stylesheet" href="/a.css">
		<style>.a{color:red}</style>
	</head><body></body></html>`)
	require.NoError(t, err)

	sources := doc.StyleAndLinkSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "link", sources[0].TagName())
	assert.Equal(t, "style", sources[1].TagName())
}

func TestStyleAndLinkSourcesSkipsBoilerplateAndNonCSS(t *testing.T) {
	doc, err := dom.ParseString(`<html><head>
		<style amp-boilerplate>body{visibility:hidden}</style>
		<style type="text/x-template">ignored</style>
		<link rel="stylesheet" href="/a.css">
		<style>.a{color:red}</style>
	</head></html>`)
	require.NoError(t, err)

	sources := doc.StyleAndLinkSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "link", sources[0].TagName())
	assert.Equal(t, "style", sources[1].TagName())
	assert.Equal(t, ".a{color:red}", sources[1].Text())
}

func TestStyleElementsSkipsNonCSSType(t *testing.T) {
	doc, err := dom.ParseString(`<html><head>
		<style type="text/css">.a{color:red}</style>
		<style type="text/x-template">ignored</style>
	</head></html>`)
	require.NoError(t, err)

	styles := doc.StyleElements()
	require.Len(t, styles, 1)
	assert.Equal(t, ".a{color:red}", styles[0].Text())
}

func TestStyleElementsSkipsBoilerplate(t *testing.T) {
	doc, err := dom.ParseString(`<html><head>
		<style amp-boilerplate>body{visibility:hidden}</style>
		<noscript><style amp-boilerplate>body{visibility:visible}</style></noscript>
		<style>.a{color:red}</style>
	</head></html>`)
	require.NoError(t, err)

	styles := doc.StyleElements()
	require.Len(t, styles, 1)
	assert.Equal(t, ".a{color:red}", styles[0].Text())
}

func TestUsedClassesSplitsOnWhitespace(t *testing.T) {
	doc, err := dom.ParseString(`<html><body>
		<div class="foo bar"></div>
		<span class="baz"></span>
	</body></html>`)
	require.NoError(t, err)

	used := doc.UsedClasses()
	assert.Contains(t, used, "foo")
	assert.Contains(t, used, "bar")
	assert.Contains(t, used, "baz")
	assert.NotContains(t, used, "qux")
}

func TestHeadIsCreatedWhenMissing(t *testing.T) {
	doc, err := dom.ParseString(`<html><body></body></html>`)
	require.NoError(t, err)

	head := doc.Head()
	require.NotNil(t, head)
	assert.Equal(t, "head", head.TagName())
}

func TestAmpCustomStyleReturnsNilWhenAbsent(t *testing.T) {
	doc, err := dom.ParseString(`<html><head></head></html>`)
	require.NoError(t, err)
	assert.Nil(t, doc.AmpCustomStyle())
}

func TestAmpCustomStyleFindsExistingHost(t *testing.T) {
	doc, err := dom.ParseString(`<html><head><style amp-custom></style></head></html>`)
	require.NoError(t, err)

	host := doc.AmpCustomStyle()
	require.NotNil(t, host)
	_, ok := host.Attr("amp-custom")
	assert.True(t, ok)
}

func TestCreateElementSetsBooleanAttr(t *testing.T) {
	n := dom.CreateElement("style", "amp-custom")
	_, ok := n.Attr("amp-custom")
	assert.True(t, ok)
	assert.Equal(t, "style", n.TagName())
}

func TestSetTextReplacesChildren(t *testing.T) {
	doc, err := dom.ParseString(`<html><head><style>old</style></head></html>`)
	require.NoError(t, err)

	styles := doc.StyleElements()
	require.Len(t, styles, 1)
	styles[0].SetText("new")
	assert.Equal(t, "new", styles[0].Text())
}

func TestRemoveDetachesElement(t *testing.T) {
	doc, err := dom.ParseString(`<html><head><style>.a{color:red}</style></head></html>`)
	require.NoError(t, err)

	styles := doc.StyleElements()
	require.Len(t, styles, 1)
	styles[0].Remove()

	assert.Empty(t, doc.StyleElements())
}

func TestRenderRoundTrips(t *testing.T) {
	doc, err := dom.ParseString(`<html><head></head><body><p>hi</p></body></html>`)
	require.NoError(t, err)

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "<p>hi</p>")
}
