package qr

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

func TestEncode(t *testing.T) {
	data, err := Encode("https://matrixindustries.in/verify?code=5f0f0f0f-aaaa-bbbb-cccc-111122223333", 256)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestEncodeDeterministic(t *testing.T) {
	first, err := Encode("https://matrixindustries.in/verify?code=abc", 128)
	require.NoError(t, err)
	second, err := Encode("https://matrixindustries.in/verify?code=abc", 128)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeEmptyPayload(t *testing.T) {
	_, err := Encode("", 256)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEncoding.Code, appErrors.FromError(err).Code)
}

func TestEncodeOversizedPayload(t *testing.T) {
	_, err := Encode(strings.Repeat("x", 8000), 256)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEncoding.Code, appErrors.FromError(err).Code)
}

func TestVerificationURL(t *testing.T) {
	assert.Equal(t, "https://matrixindustries.in/verify?code=abc", VerificationURL("https://matrixindustries.in/verify", "abc"))
	assert.Equal(t, "https://example.com/v?code=abc", VerificationURL("https://example.com/v", "abc"))
}
