package platformspec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampgo/ampcss/internal/platformspec"
)

func TestDefaultSpecBaseline(t *testing.T) {
	s := platformspec.Default()

	assert.Equal(t, 75000, s.Custom.MaxBytes)
	assert.Equal(t, 500000, s.Keyframes.MaxBytes)
	assert.True(t, s.Keyframes.ValidateKeyframes)
	assert.False(t, s.Custom.ValidateKeyframes)

	assert.True(t, s.IsAllowedFontURL("https://fonts.googleapis.com/css?family=Roboto"))
	assert.False(t, s.IsAllowedFontURL("https://evil.example/fonts.css"))
}

func TestAtRuleSetConvertsSliceToSet(t *testing.T) {
	set := platformspec.AtRuleSet([]string{"media", "font-face"})
	assert.True(t, set["media"])
	assert.True(t, set["font-face"])
	assert.False(t, set["keyframes"])
}

func TestLoadDecodesJSONAndCompilesRegex(t *testing.T) {
	const doc = `{
		"custom": {"max_bytes": 100, "allowed_at_rules": ["media"]},
		"keyframes": {"max_bytes": 200, "validate_keyframes": true},
		"allowed_font_url_regex": "^https://fonts\\.example\\.com/"
	}`

	s, err := platformspec.Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 100, s.Custom.MaxBytes)
	assert.Equal(t, 200, s.Keyframes.MaxBytes)
	assert.True(t, s.IsAllowedFontURL("https://fonts.example.com/css"))
	assert.False(t, s.IsAllowedFontURL("https://fonts.googleapis.com/css"))
}

func TestLoadRejectsInvalidRegex(t *testing.T) {
	const doc = `{"allowed_font_url_regex": "("}`
	_, err := platformspec.Load(strings.NewReader(doc))
	assert.Error(t, err)
}
