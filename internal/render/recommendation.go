package render

import (
	"github.com/matrix-industries/credential-api/internal/models"
)

// Recommendation letter layout: shared letterhead, a body whose phrasing is
// selected by the performance tier, QR on the right and the seal next to the
// signature block.
const (
	lorBodyStartY   = 95.0
	lorBodyLineStep = 7.0
	lorQRY          = 170.0
	lorQRSize       = 30.0
	lorStampSize    = 45.0
)

type recommendationRenderer struct {
	brand Branding
}

// recommendationBody assembles the letter body. The Excellent tier selects
// the stronger-praise template; anything else uses the standard one.
func recommendationBody(rec *models.DocumentRecord) []string {
	fields := rec.Recommendation()
	first := firstName(rec.SubjectName)

	performanceText := "strong work ethic, good technical abilities, and professional conduct"
	if fields.Performance == models.PerformanceExcellent {
		performanceText = "exceptional dedication, outstanding technical skills, and remarkable professionalism"
	}

	period := "During the internship period"
	if fields.Duration != "" {
		period += " of " + fields.Duration
	}

	contribution1 := first
	contribution2 := "contributed effectively to our team projects."
	if fields.Performance == models.PerformanceExcellent {
		contribution1 = first + " consistently exceeded expectations and"
		contribution2 = "made significant contributions to our projects."
	}

	return []string{
		"This letter is to recommend " + rec.SubjectName + " who completed an internship",
		"with Matrix Industries in the " + rec.Domain + " department.",
		"",
		period + ", " + first,
		"demonstrated " + performanceText + ".",
		contribution1,
		contribution2,
		"",
		first + " showed excellent learning capabilities and adapted quickly to",
		"our work environment. The technical skills and knowledge gained during this",
		"internship have prepared them well for future professional endeavors.",
		"",
		"We highly recommend " + first + " for future opportunities and believe",
		"they will be a valuable asset to any organization.",
	}
}

func (r *recommendationRenderer) Render(rec *models.DocumentRecord, assets Assets) ([]byte, error) {
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

	// Letterhead shared with other plain-letter documents.
	placeImage(pdf, "logo", 15, 10, 25, 25)
	pdf.SetFont("Helvetica", "B", 20)
	setText(pdf, colorBrand)
	pdf.Text(45, 20, r.brand.OrgName)
	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, colorMuted)
	pdf.Text(45, 28, r.brand.Tagline)

	// Title and date.
	pdf.SetFont("Helvetica", "B", 18)
	setText(pdf, colorBrand)
	textCentered(pdf, "LETTER OF RECOMMENDATION", pageWidth/2, 50)
	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, rgb{80, 80, 80})
	pdf.Text(20, 65, "Date: "+longDate(rec.IssueDate))

	pdf.SetFontSize(11)
	pdf.Text(20, 80, "To Whom It May Concern,")

	// Body: forward-flow accumulator from a fixed start Y.
	yPos := lorBodyStartY
	for _, line := range recommendationBody(rec) {
		if line != "" {
			pdf.Text(20, yPos, line)
		}
		yPos += lorBodyLineStep
	}

	placeImage(pdf, "qr", pageWidth-50, lorQRY, lorQRSize, lorQRSize)
	placeImage(pdf, "stamp", 20, yPos+10, lorStampSize, lorStampSize)

	// Signature to the right of the stamp.
	pdf.Text(55, yPos+20, "Best Regards,")
	setDraw(pdf, colorMuted)
	pdf.SetLineWidth(0.3)
	pdf.Line(55, yPos+35, 105, yPos+35)
	pdf.Text(55, yPos+42, "Authorized Signatory")
	pdf.Text(55, yPos+49, r.brand.OrgName)

	// Footer with the truncated verification token.
	pdf.SetFont("Helvetica", "", 8)
	setText(pdf, colorFaint)
	textCentered(pdf, "LoR ID: "+shortID(rec.ID, 8), pageWidth/2, 280)
	pdf.SetFontSize(8)
	textCentered(pdf, r.brand.OrgName+" Pvt. Ltd. | "+r.brand.Website, pageWidth/2, pageHeight-10)

	return finish(pdf)
}
