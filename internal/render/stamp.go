package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

// The authenticity seal is a pure function of nothing: the same circular
// raster is embedded in every document of every kind. It is drawn rather
// than shipped as a binary asset, and memoized so repeated calls return
// byte-identical output.
const (
	stampSizePx   = 512
	stampOuterR   = 250.0
	stampRingW    = 10.0
	stampInnerR   = 198.0
	stampInnerW   = 4.0
	stampTicks    = 36
	stampTickHalf = 0.018 // radians
	stampCoreR    = 64.0
)

var (
	stampOnce  sync.Once
	stampBytes []byte
	stampErr   error
)

// Stamp returns the seal as PNG bytes. Deterministic: no randomness, no
// timestamps.
func Stamp() ([]byte, error) {
	stampOnce.Do(func() {
		stampBytes, stampErr = drawStamp()
	})
	return stampBytes, stampErr
}

func drawStamp() ([]byte, error) {
	ink := color.NRGBA{R: 33, G: 128, B: 141, A: 255}
	faint := color.NRGBA{R: 33, G: 128, B: 141, A: 70}

	img := image.NewNRGBA(image.Rect(0, 0, stampSizePx, stampSizePx))
	center := float64(stampSizePx) / 2

	for y := 0; y < stampSizePx; y++ {
		for x := 0; x < stampSizePx; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			d := math.Hypot(dx, dy)

			switch {
			case d <= stampOuterR && d >= stampOuterR-stampRingW:
				img.SetNRGBA(x, y, ink)
			case d <= stampInnerR && d >= stampInnerR-stampInnerW:
				img.SetNRGBA(x, y, ink)
			case d < stampInnerR-stampInnerW && d > stampCoreR:
				if onTick(dx, dy) {
					img.SetNRGBA(x, y, faint)
				}
			case d <= stampCoreR:
				img.SetNRGBA(x, y, ink)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAssetLoad.Code, appErrors.ErrAssetLoad.Status, "encode seal raster")
	}
	return buf.Bytes(), nil
}

// onTick reports whether the point falls on one of the radial tick marks
// between the rings.
func onTick(dx, dy float64) bool {
	angle := math.Atan2(dy, dx)
	step := 2 * math.Pi / stampTicks
	_, frac := math.Modf((angle + math.Pi) / step)
	return frac < stampTickHalf/step || frac > 1-stampTickHalf/step
}
