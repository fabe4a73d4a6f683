package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, defaultModel, o.Model)
	assert.Equal(t, float32(1), o.Temperature)
	assert.Equal(t, float32(0.95), o.TopP)
	assert.Equal(t, float32(40), o.TopK)
	assert.Equal(t, int32(8192), o.MaxOutputTokens)
}

func TestOptionsOverrides(t *testing.T) {
	o := Options{Model: "gemini-2.5-flash", Temperature: 0.2, MaxOutputTokens: 1024}.withDefaults()
	assert.Equal(t, "gemini-2.5-flash", o.Model)
	assert.Equal(t, float32(0.2), o.Temperature)
	assert.Equal(t, int32(1024), o.MaxOutputTokens)
	assert.Equal(t, float32(0.95), o.TopP)
}
