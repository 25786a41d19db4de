package render

import (
	"fmt"
	"strings"

	"github.com/matrix-industries/credential-api/internal/models"
	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

// Offer letter layout: colored letterhead band, reference block, letter body
// flowing from a fixed start Y, then signature, stamp and an acceptance block
// that is dropped when it would crowd the footer. Trailing sections are
// omitted rather than ever overflowing the page.
const (
	offerHeaderHeight   = 45.0
	offerBodyStartY     = 142.0
	offerBodyLineStep   = 5.5
	offerAcceptHeight   = 28.0
	offerAcceptRequired = 35.0
	offerFooterClear    = 15.0
	offerStampSize      = 52.0
)

type offerLetterRenderer struct {
	brand Branding
}

// offerBody assembles the fixed multi-paragraph letter body. Line counts are
// bounded by construction; the layout never paginates.
func offerBody(fields models.OfferLetterFields) []string {
	return []string{
		fmt.Sprintf("We are pleased to offer you the position of %s at Matrix Industries.", fields.Position),
		"This is an educational internship opportunity, designed to provide you with meaningful,",
		"hands-on experience in your chosen domain.",
		"",
		fmt.Sprintf("Your internship is scheduled to begin on %s and will conclude", ordinalDate(fields.StartDate)),
		fmt.Sprintf("on %s, with a total duration of one month (4 weeks).", ordinalDate(fields.EndDate)),
		"",
		"By accepting this offer, you acknowledge and agree that your participation in this program",
		"is not an offer of employment, and successful completion of the internship does not",
		"guarantee any employment or job offer from Matrix Industries.",
		"",
		"You further agree to abide by all company policies applicable to non-employee interns.",
		"This letter forms the complete understanding between you and Matrix Industries regarding",
		"your internship and supersedes any prior discussions or agreements. Modifications to this",
		"letter, if any, must be made in writing and signed by both parties.",
		"",
		"We look forward to welcoming you to the Matrix Industries internship program and wish",
		"you an enriching and successful experience.",
	}
}

// acceptanceFits reports whether the acceptance block starting at acceptY
// still clears the footer margin.
func acceptanceFits(acceptY float64) bool {
	return acceptY+offerAcceptRequired < pageHeight-offerFooterClear
}

func (r *offerLetterRenderer) Render(rec *models.DocumentRecord, assets Assets) ([]byte, error) {
	fields, err := rec.Offer()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRender.Code, appErrors.ErrRender.Status, "offer letter fields")
	}

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

	// Letterhead band.
	setFill(pdf, colorBrand)
	pdf.Rect(0, 0, pageWidth, offerHeaderHeight, "F")
	placeImage(pdf, "logo", 15, 10, 25, 25)
	pdf.SetFont("Helvetica", "B", 22)
	setText(pdf, rgb{255, 255, 255})
	pdf.Text(45, 22, r.brand.OrgName)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(45, 30, r.brand.Tagline)
	pdf.SetFontSize(7)
	pdf.Text(45, 36, r.brand.Website+" | "+r.brand.Email)
	setDraw(pdf, colorAccent)
	pdf.SetLineWidth(1.5)
	pdf.Line(0, offerHeaderHeight, pageWidth, offerHeaderHeight)

	// Title.
	pdf.SetFont("Helvetica", "B", 18)
	setText(pdf, colorBrand)
	textCentered(pdf, "INTERNSHIP OFFER LETTER", pageWidth/2, 60)

	// Reference and date panel.
	setFill(pdf, colorWash)
	pdf.RoundedRect(15, 70, pageWidth-30, 20, 2, "1234", "F")
	pdf.SetFont("Helvetica", "", 9)
	setText(pdf, rgb{70, 70, 70})
	ref := fmt.Sprintf("Reference No: MI/INT/%d/%s", rec.IssueDate.Year(), strings.ToUpper(shortID(rec.ID, 6)))
	pdf.Text(20, 78, ref)
	pdf.Text(20, 85, "Date: "+longDate(rec.IssueDate))

	// Recipient block.
	pdf.SetFont("Helvetica", "B", 11)
	setText(pdf, rgb{50, 50, 50})
	pdf.Text(20, 102, "To,")
	pdf.SetFontSize(12)
	setText(pdf, colorBrand)
	pdf.Text(20, 110, rec.SubjectName)
	pdf.SetFont("Helvetica", "", 9)
	setText(pdf, rgb{80, 80, 80})
	pdf.Text(20, 117, rec.SubjectEmail)

	pdf.SetFont("Helvetica", "B", 11)
	setText(pdf, rgb{50, 50, 50})
	pdf.Text(20, 132, "Dear "+firstName(rec.SubjectName)+",")

	// Letter body: forward-flow accumulator from a fixed start Y.
	pdf.SetFont("Helvetica", "", 9.5)
	setText(pdf, colorBody)
	yPos := offerBodyStartY
	for _, line := range offerBody(fields) {
		if line != "" {
			pdf.Text(20, yPos, line)
		}
		yPos += offerBodyLineStep
	}

	// Closing and signature.
	yPos += 8
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, yPos, "Sincerely,")
	yPos += 5
	pdf.Text(20, yPos, r.brand.OrgName)
	yPos += 12
	pdf.SetLineWidth(0.3)
	setDraw(pdf, colorMuted)
	pdf.Line(20, yPos, 70, yPos)
	pdf.SetFont("Helvetica", "B", 10)
	setText(pdf, rgb{50, 50, 50})
	pdf.Text(20, yPos+5, "Authorized Signatory")
	pdf.SetFont("Helvetica", "", 8)
	setText(pdf, rgb{80, 80, 80})
	pdf.Text(20, yPos+10, "Human Resources Department")
	pdf.Text(20, yPos+15, r.brand.OrgName+" Pvt. Ltd.")

	// Seal to the right of the signature, clear of the footer.
	placeImage(pdf, "stamp", pageWidth-65, yPos-40, offerStampSize, offerStampSize)

	// Acceptance block, only when it fits above the footer clearance.
	acceptY := yPos + 22
	if acceptanceFits(acceptY) {
		setFill(pdf, colorWash)
		pdf.RoundedRect(20, acceptY, pageWidth-40, offerAcceptHeight, 2, "1234", "F")
		pdf.SetFont("Helvetica", "B", 9)
		setText(pdf, colorBrand)
		pdf.Text(25, acceptY+6, "ACCEPTANCE")
		pdf.SetFont("Helvetica", "", 8)
		setText(pdf, colorBody)
		pdf.Text(25, acceptY+13, "I, "+rec.SubjectName+", accept this internship offer.")
		pdf.SetLineWidth(0.3)
		setDraw(pdf, colorMuted)
		pdf.Line(25, acceptY+22, 75, acceptY+22)
		pdf.Line(pageWidth-75, acceptY+22, pageWidth-25, acceptY+22)
		pdf.SetFontSize(7)
		textCentered(pdf, "Signature", 50, acceptY+26)
		textCentered(pdf, "Date", pageWidth-50, acceptY+26)
	}

	// Verification QR beside the reference panel.
	setFill(pdf, rgb{255, 255, 255})
	setDraw(pdf, colorAccent)
	pdf.SetLineWidth(0.5)
	pdf.RoundedRect(pageWidth-41, 70, 32, 32, 2, "1234", "FD")
	placeImage(pdf, "qr", pageWidth-39, 72, 28, 28)
	pdf.SetFont("Helvetica", "", 6)
	setText(pdf, colorMuted)
	textCentered(pdf, "Verify Offer", pageWidth-25, 105)

	// Footer band with the truncated verification token.
	setFill(pdf, rgb{240, 240, 240})
	pdf.Rect(0, pageHeight-12, pageWidth, 12, "F")
	pdf.SetFont("Helvetica", "", 7)
	setText(pdf, colorMuted)
	textCentered(pdf, r.brand.OrgName+" Pvt. Ltd. | Regd. Office: Technology Park, Innovation District", pageWidth/2, pageHeight-7)
	pdf.SetFontSize(6)
	setText(pdf, rgb{130, 130, 130})
	textCentered(pdf, "Document ID: "+shortID(rec.ID, 16)+" | This is a system-generated document", pageWidth/2, pageHeight-3)

	return finish(pdf)
}
