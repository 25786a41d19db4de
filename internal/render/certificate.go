package render

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/matrix-industries/credential-api/internal/models"
)

// Certificate layout: decorative bordered page with centered content flow,
// QR block near the bottom and the seal above the signature line.
const (
	certBorderOuter  = 15.0
	certTitleY       = 90.0
	certNameBoxY     = 129.0
	certDomainBoxY   = 164.0
	certInfoStartY   = 188.0
	certQRBoxY       = 202.0
	certQRBoxSize    = 42.0
	certQRSize       = 36.0
	certSignatureY   = 257.0
	certStampSize    = 52.0
	certFooterClear  = 15.0
	certInfoLineStep = 6.0
)

type certificateRenderer struct {
	brand Branding
}

func (r *certificateRenderer) Render(rec *models.DocumentRecord, assets Assets) ([]byte, error) {
	pdf := newDoc()
	if err := registerImage(pdf, "logo", assets.Logo); err != nil {
		return nil, err
	}
	if err := registerImage(pdf, "stamp", assets.Stamp); err != nil {
		return nil, err
	}
	if err := registerImage(pdf, "qr", assets.QR); err != nil {
		return nil, err
	}

	// Background wash and corner accents.
	setFill(pdf, colorWash)
	pdf.Rect(0, 0, pageWidth, pageHeight, "F")
	setFill(pdf, colorBrand)
	pdf.Polygon([]gofpdf.PointType{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 0, Y: 30}}, "F")
	pdf.Polygon([]gofpdf.PointType{{X: pageWidth, Y: 0}, {X: pageWidth - 30, Y: 0}, {X: pageWidth, Y: 30}}, "F")

	// Double decorative border plus inner accent.
	setDraw(pdf, colorBrand)
	pdf.SetLineWidth(2)
	pdf.Rect(certBorderOuter, 20, pageWidth-30, pageHeight-40, "D")
	pdf.SetLineWidth(0.5)
	pdf.Rect(18, 23, pageWidth-36, pageHeight-46, "D")
	setDraw(pdf, colorAccent)
	pdf.SetLineWidth(0.3)
	pdf.Rect(20, 25, pageWidth-40, pageHeight-50, "D")

	// Centered letterhead.
	placeImage(pdf, "logo", pageWidth/2-15, 32, 30, 30)
	pdf.SetFont("Helvetica", "B", 16)
	setText(pdf, colorBrand)
	textCentered(pdf, r.brand.OrgName, pageWidth/2, 68)
	pdf.SetFont("Helvetica", "I", 9)
	setText(pdf, rgb{80, 80, 80})
	textCentered(pdf, r.brand.Tagline, pageWidth/2, 74)

	// Title.
	pdf.SetFont("Helvetica", "B", 28)
	setText(pdf, colorBrand)
	textCentered(pdf, "INTERNSHIP COMPLETION", pageWidth/2, certTitleY)
	pdf.SetFontSize(30)
	textCentered(pdf, "CERTIFICATE", pageWidth/2, 102)
	setDraw(pdf, colorAccent)
	pdf.SetLineWidth(0.5)
	pdf.Line(40, 107, pageWidth-40, 107)

	// Body.
	pdf.SetFont("Helvetica", "", 11)
	setText(pdf, colorBody)
	textCentered(pdf, "This is to certify that", pageWidth/2, 122)

	setFill(pdf, colorPanel)
	setDraw(pdf, colorAccent)
	pdf.SetLineWidth(0.3)
	pdf.RoundedRect(30, certNameBoxY, pageWidth-60, 18, 2, "1234", "FD")
	pdf.SetFont("Helvetica", "B", 24)
	setText(pdf, colorBrand)
	textCentered(pdf, strings.ToUpper(rec.SubjectName), pageWidth/2, 140)

	pdf.SetFont("Helvetica", "", 11)
	setText(pdf, colorBody)
	textCentered(pdf, "has successfully completed the internship program in", pageWidth/2, 158)

	setFill(pdf, colorPanel)
	setDraw(pdf, colorAccent)
	pdf.SetLineWidth(1)
	pdf.RoundedRect(40, certDomainBoxY, pageWidth-80, 16, 3, "1234", "FD")
	pdf.SetFont("Helvetica", "B", 20)
	setText(pdf, colorHighlight)
	textCentered(pdf, strings.ToUpper(rec.Domain), pageWidth/2, 174)

	// Duration (optional) and issue date accumulate from a fixed start Y.
	infoY := certInfoStartY
	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, rgb{70, 70, 70})
	if d := rec.Certificate().Duration; d != "" {
		textCentered(pdf, "Duration: "+d, pageWidth/2, infoY)
		infoY += certInfoLineStep
	}
	textCentered(pdf, "Issue Date: "+longDate(rec.IssueDate), pageWidth/2, infoY)

	// QR block with caption.
	setFill(pdf, rgb{255, 255, 255})
	setDraw(pdf, colorAccent)
	pdf.SetLineWidth(0.5)
	pdf.RoundedRect(pageWidth/2-certQRBoxSize/2, certQRBoxY, certQRBoxSize, certQRBoxSize, 2, "1234", "FD")
	placeImage(pdf, "qr", pageWidth/2-certQRSize/2, certQRBoxY+3, certQRSize, certQRSize)
	pdf.SetFont("Helvetica", "", 7)
	setText(pdf, colorMuted)
	textCentered(pdf, "Scan to verify", pageWidth/2, 249)

	// Signature row; never let it crowd the footer.
	sigY := certSignatureY
	if ceiling := pageHeight - certFooterClear - 25; sigY > ceiling {
		sigY = ceiling
	}

	placeImage(pdf, "stamp", 34, sigY-45, certStampSize, certStampSize)

	pdf.SetLineWidth(0.3)
	setDraw(pdf, colorMuted)
	pdf.Line(35, sigY, 85, sigY)
	pdf.SetFont("Helvetica", "B", 9)
	setText(pdf, colorBody)
	textCentered(pdf, "Authorized Signatory", 60, sigY+5)
	pdf.SetFont("Helvetica", "", 8)
	textCentered(pdf, r.brand.OrgName, 60, sigY+10)

	pdf.Line(pageWidth-85, sigY, pageWidth-35, sigY)
	pdf.SetFont("Helvetica", "B", 9)
	textCentered(pdf, "Date of Issue", pageWidth-60, sigY+5)
	pdf.SetFont("Helvetica", "", 8)
	textCentered(pdf, rec.IssueDate.Format("01/02/2006"), pageWidth-60, sigY+10)

	// Footer with the truncated verification token.
	pdf.SetFont("Helvetica", "", 7)
	setText(pdf, colorFaint)
	textCentered(pdf, fmt.Sprintf("%s | %s | Email: %s", r.brand.OrgName, r.brand.Website, r.brand.Email), pageWidth/2, pageHeight-8)
	pdf.SetFontSize(6)
	setText(pdf, rgb{150, 150, 150})
	textCentered(pdf, "Certificate ID: "+strings.ToUpper(shortID(rec.ID, 8)), pageWidth/2, pageHeight-4)

	return finish(pdf)
}
