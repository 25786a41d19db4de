package qr

import (
	qrcode "github.com/skip2/go-qrcode"

	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

// Encode rasterises the URL into a PNG of pixelSize x pixelSize pixels.
// Payloads beyond QR capacity surface an encoding error; content is never
// truncated.
func Encode(url string, pixelSize int) ([]byte, error) {
	if url == "" {
		return nil, appErrors.Clone(appErrors.ErrEncoding, "qr payload is empty")
	}
	if pixelSize <= 0 {
		pixelSize = 500
	}
	png, err := qrcode.Encode(url, qrcode.Medium, pixelSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrEncoding.Code, appErrors.ErrEncoding.Status, "encode qr payload")
	}
	return png, nil
}

// VerificationURL builds the URL baked into a document's QR raster.
// The base URL is resolved once at render time; changing it later does not
// touch already-issued documents.
func VerificationURL(baseURL, code string) string {
	return baseURL + "?code=" + code
}
