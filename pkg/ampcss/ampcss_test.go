package ampcss_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampgo/ampcss/internal/logger"
	"github.com/ampgo/ampcss/pkg/ampcss"
)

func TestSanitizeMovesUsedStyleIntoAmpCustom(t *testing.T) {
	html := `<html><head>
		<style amp-custom></style>
		<style>.used{color:red}.unused{color:blue}</style>
	</head><body><div class="used"></div></body></html>`

	result, err := ampcss.Sanitize(html, ampcss.Options{})
	require.NoError(t, err)

	assert.Contains(t, result.HTML, ".used{color:red}")
	assert.NotContains(t, result.HTML, ".unused")
	assert.Empty(t, result.Errors)
}

func TestSanitizeReportsIllegalAtRule(t *testing.T) {
	html := `<html><head>
		<style amp-custom></style>
		<style>@page{margin:0}</style>
	</head></html>`

	result, err := ampcss.Sanitize(html, ampcss.Options{})
	require.NoError(t, err)

	require.NotEmpty(t, result.Errors)
	assert.Equal(t, string(logger.ErrIllegalAtRule), result.Errors[0].Code)
	assert.NotEmpty(t, result.Errors[0].Message)

	require.NotEmpty(t, result.Log)
	assert.Equal(t, logger.Error, result.Log[0].Kind)
}

func TestSanitizeRecordsTelemetryTiming(t *testing.T) {
	html := `<html><head><style amp-custom></style></head></html>`

	var calls int
	telemetry := logger.TelemetryFunc(func(name string, d float64, desc string) {
		calls++
		assert.Equal(t, "css_sanitize", name)
		assert.GreaterOrEqual(t, d, 0.0)
	})

	_, err := ampcss.Sanitize(html, ampcss.Options{Telemetry: telemetry})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSanitizeEmitsKeyframesIntoBody(t *testing.T) {
	html := `<html><head>
		<style amp-custom></style>
		<style amp-keyframes>@keyframes spin{from{opacity:0}to{opacity:1}}</style>
	</head><body></body></html>`

	result, err := ampcss.Sanitize(html, ampcss.Options{})
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "amp-keyframes")
	assert.Contains(t, result.HTML, "@keyframes spin")
}
