package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrix-industries/credential-api/internal/models"
)

func TestOfferBodyContent(t *testing.T) {
	rec := testRecord(models.KindOfferLetter)
	fields, err := rec.Offer()
	require.NoError(t, err)

	lines := offerBody(fields)
	assert.Contains(t, lines[0], "Software Intern")
	assert.Contains(t, lines[4], "11th March 2024")
	assert.Contains(t, lines[5], "8th April 2024")
}

func TestOfferEndDateDefaultsToFourWeeks(t *testing.T) {
	rec := testRecord(models.KindOfferLetter)
	rec.Details.StartDate = "2024-02-01"
	rec.Details.EndDate = ""

	fields, err := rec.Offer()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), fields.EndDate)
}

func TestOfferExplicitEndDateWins(t *testing.T) {
	rec := testRecord(models.KindOfferLetter)
	rec.Details.StartDate = "2024-03-11"
	rec.Details.EndDate = "2024-06-30"

	fields, err := rec.Offer()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), fields.EndDate)
}

func TestOfferPositionDefaultsToIntern(t *testing.T) {
	rec := testRecord(models.KindOfferLetter)
	rec.Details.Position = ""

	fields, err := rec.Offer()
	require.NoError(t, err)
	assert.Equal(t, "Intern", fields.Position)
}

func TestAcceptanceFits(t *testing.T) {
	// Needs acceptY + 35 to clear the 15mm footer margin on a 297mm page.
	assert.True(t, acceptanceFits(246))
	assert.False(t, acceptanceFits(247))
	assert.False(t, acceptanceFits(288))
}
