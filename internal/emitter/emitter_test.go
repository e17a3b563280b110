package emitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampgo/ampcss/internal/budget"
	"github.com/ampgo/ampcss/internal/dom"
	"github.com/ampgo/ampcss/internal/emitter"
	"github.com/ampgo/ampcss/internal/logger"
)

func TestEmitCustomCreatesStyleWhenAbsent(t *testing.T) {
	doc, err := dom.ParseString(`<html><head></head><body></body></html>`)
	require.NoError(t, err)

	l := budget.NewLedger(1000)
	l.Admit(".a{color:red}")

	emitter.EmitCustom(doc, l)

	host := doc.AmpCustomStyle()
	require.NotNil(t, host)
	assert.Equal(t, ".a{color:red}", host.Text())
}

func TestEmitCustomReusesExistingHost(t *testing.T) {
	doc, err := dom.ParseString(`<html><head><style amp-custom>stale</style></head></html>`)
	require.NoError(t, err)

	l := budget.NewLedger(1000)
	l.Admit(".a{color:red}")

	emitter.EmitCustom(doc, l)

	out, err := doc.Render()
	require.NoError(t, err)

	count := 0
	for i := 0; i+len("amp-custom") <= len(out); i++ {
		if out[i:i+len("amp-custom")] == "amp-custom" {
			count++
		}
	}
	assert.Equal(t, 1, count, "must not create a second amp-custom host")

	host := doc.AmpCustomStyle()
	require.NotNil(t, host)
	assert.Equal(t, ".a{color:red}", host.Text())
}

func TestEmitKeyframesNoOpWhenEmpty(t *testing.T) {
	doc, err := dom.ParseString(`<html><body></body></html>`)
	require.NoError(t, err)

	l := budget.NewLedger(1000)
	emitter.EmitKeyframes(doc, l, logger.DiscardCSSValidation)

	out, err := doc.Render()
	require.NoError(t, err)
	assert.NotContains(t, out, "amp-keyframes")
}

func TestEmitKeyframesAppendsToBody(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><p>hi</p></body></html>`)
	require.NoError(t, err)

	l := budget.NewLedger(1000)
	l.Admit("@keyframes spin{from{opacity:0}to{opacity:1}}")

	emitter.EmitKeyframes(doc, l, logger.DiscardCSSValidation)

	body := doc.Body()
	require.NotNil(t, body)
	out, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "amp-keyframes")
	assert.Contains(t, out, "@keyframes spin")
}

func TestEmitKeyframesReportsMissingBody(t *testing.T) {
	doc, err := dom.ParseString(`<html><head></head></html>`)
	require.NoError(t, err)

	l := budget.NewLedger(1000)
	l.Admit("@keyframes spin{from{opacity:0}to{opacity:1}}")

	var got []logger.CSSValidationError
	sink := logger.CSSValidationSinkFunc(func(e logger.CSSValidationError) { got = append(got, e) })

	emitter.EmitKeyframes(doc, l, sink)

	require.Len(t, got, 1)
	assert.Equal(t, logger.ErrMissingBodyElement, got[0].Code)
}
