package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

// LoadLogo reads the organization logo from disk and validates that it is
// a decodable raster. An empty path selects the built-in monogram so a
// fresh deployment renders without any binary assets on disk.
func LoadLogo(path string) ([]byte, error) {
	if path == "" {
		return fallbackLogo()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAssetLoad.Code, appErrors.ErrAssetLoad.Status, "read logo file")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAssetLoad.Code, appErrors.ErrAssetLoad.Status, "decode logo file")
	}
	return data, nil
}

const logoSizePx = 256

var (
	logoOnce  sync.Once
	logoBytes []byte
	logoErr   error
)

// fallbackLogo draws a square monogram tile: brand field with an accent
// diagonal. Memoized, so it is byte-stable across calls.
func fallbackLogo() ([]byte, error) {
	logoOnce.Do(func() {
		field := color.NRGBA{R: 33, G: 128, B: 141, A: 255}
		stripe := color.NRGBA{R: 50, G: 184, B: 198, A: 255}

		img := image.NewNRGBA(image.Rect(0, 0, logoSizePx, logoSizePx))
		for y := 0; y < logoSizePx; y++ {
			for x := 0; x < logoSizePx; x++ {
				if d := x + y - logoSizePx; d > -18 && d < 18 {
					img.SetNRGBA(x, y, stripe)
				} else {
					img.SetNRGBA(x, y, field)
				}
			}
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			logoErr = appErrors.Wrap(err, appErrors.ErrAssetLoad.Code, appErrors.ErrAssetLoad.Status, "encode fallback logo")
			return
		}
		logoBytes = buf.Bytes()
	})
	return logoBytes, logoErr
}
