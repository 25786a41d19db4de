package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/matrix-industries/credential-api/internal/models"
	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

// Branding carries the letterhead identity shared by every renderer.
type Branding struct {
	OrgName string
	Tagline string
	Website string
	Email   string
}

// Assets bundles the rasters embedded into a document: the organization
// logo, the authenticity stamp, and the per-document QR code.
type Assets struct {
	Logo  []byte
	Stamp []byte
	QR    []byte
}

// Renderer lays out one document kind onto a single A4 page.
type Renderer interface {
	Render(rec *models.DocumentRecord, assets Assets) ([]byte, error)
}

// Engine selects the kind-specific renderer.
type Engine struct {
	brand Branding
}

// NewEngine constructs the rendering engine.
func NewEngine(brand Branding) *Engine {
	return &Engine{brand: brand}
}

// ForKind returns the renderer for the record's kind.
func (e *Engine) ForKind(kind models.DocumentKind) (Renderer, error) {
	switch kind {
	case models.KindCertificate:
		return &certificateRenderer{brand: e.brand}, nil
	case models.KindOfferLetter:
		return &offerLetterRenderer{brand: e.brand}, nil
	case models.KindRecommendation:
		return &recommendationRenderer{brand: e.brand}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrRender, fmt.Sprintf("no renderer for kind %q", kind))
}

// Page geometry and shared palette. All coordinates are millimetres on an
// A4 portrait page; layouts are forward-flow accumulators over these
// constants, never reflowed from content length.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
)

type rgb struct{ r, g, b int }

var (
	colorBrand     = rgb{33, 128, 141}
	colorAccent    = rgb{50, 184, 198}
	colorHighlight = rgb{39, 151, 86}
	colorBody      = rgb{60, 60, 60}
	colorMuted     = rgb{100, 100, 100}
	colorFaint     = rgb{120, 120, 120}
	colorWash      = rgb{245, 250, 252}
	colorPanel     = rgb{250, 252, 253}
)

// Renders are deterministic: the PDF creation date is pinned so identical
// inputs produce identical bytes.
var fixedCreationDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func newDoc() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(fixedCreationDate)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

func setFill(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setDraw(pdf *gofpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }
func setText(pdf *gofpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }

func textCentered(pdf *gofpdf.Fpdf, s string, centerX, y float64) {
	pdf.Text(centerX-pdf.GetStringWidth(s)/2, y, s)
}

// registerImage validates and registers a raster under the given name.
// Undecodable data is an asset load failure, surfaced before any drawing.
func registerImage(pdf *gofpdf.Fpdf, name string, data []byte) error {
	if len(data) == 0 {
		return appErrors.Clone(appErrors.ErrAssetLoad, fmt.Sprintf("asset %s is empty", name))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrAssetLoad.Code, appErrors.ErrAssetLoad.Status, fmt.Sprintf("decode asset %s", name))
	}
	var imageType string
	switch format {
	case "png":
		imageType = "PNG"
	case "jpeg":
		imageType = "JPG"
	default:
		return appErrors.Clone(appErrors.ErrAssetLoad, fmt.Sprintf("unsupported asset format %q for %s", format, name))
	}
	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		return appErrors.Wrap(pdf.Error(), appErrors.ErrAssetLoad.Code, appErrors.ErrAssetLoad.Status, fmt.Sprintf("register asset %s", name))
	}
	return nil
}

func placeImage(pdf *gofpdf.Fpdf, name string, x, y, w, h float64) {
	pdf.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{}, 0, "")
}

func finish(pdf *gofpdf.Fpdf) ([]byte, error) {
	if pdf.Err() {
		return nil, appErrors.Wrap(pdf.Error(), appErrors.ErrRender.Code, appErrors.ErrRender.Status, "document geometry failed")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRender.Code, appErrors.ErrRender.Status, "write pdf output")
	}
	return buf.Bytes(), nil
}

// shortID returns the truncated token printed in document footers.
func shortID(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// firstName returns the informal salutation token.
func firstName(full string) string {
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	return full
}

// longDate renders "January 15, 2024" style dates.
func longDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// ordinalDate renders "1st January 2024" style dates used by offer letters.
func ordinalDate(t time.Time) string {
	day := t.Day()
	suffix := "th"
	switch {
	case day%100 >= 11 && day%100 <= 13:
		suffix = "th"
	case day%10 == 1:
		suffix = "st"
	case day%10 == 2:
		suffix = "nd"
	case day%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s %s %d", day, suffix, t.Month().String(), t.Year())
}
