package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampIsValidPNG(t *testing.T) {
	data, err := Stamp()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, stampSizePx, bounds.Dx())
	assert.Equal(t, stampSizePx, bounds.Dy())
}

func TestStampIsByteStable(t *testing.T) {
	first, err := Stamp()
	require.NoError(t, err)
	second, err := Stamp()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFallbackLogoIsValidPNG(t *testing.T) {
	data, err := LoadLogo("")
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestLoadLogoMissingFile(t *testing.T) {
	_, err := LoadLogo("/nonexistent/logo.png")
	require.Error(t, err)
}
