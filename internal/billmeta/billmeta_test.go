package billmeta

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFirstPage = `Stricken language would be deleted from and underlined language would be added to present law.

State of Arkansas
95th General Assembly
Regular Session, 2025

SENATE BILL 8

By: Senator J. Payton

For An Act To Be Entitled
AN ACT TO AMEND THE LAW CONCERNING SCHOOL SAFETY;
AND FOR OTHER PURPOSES.

Subtitle: TO AMEND THE LAW CONCERNING SCHOOL SAFETY.

BE IT ENACTED BY THE GENERAL ASSEMBLY OF THE STATE OF ARKANSAS:

01/08/2025 10:15:30 AM JLL083
`

func TestExtractAllFields(t *testing.T) {
	meta := Extract(sampleFirstPage, sampleFirstPage)

	require.NotNil(t, meta.DateFiled)
	expected := time.Date(2025, 1, 8, 10, 15, 30, 0, time.UTC)
	assert.Equal(t, expected, meta.DateFiled.UTC())

	assert.Equal(t, "TO AMEND THE LAW CONCERNING SCHOOL SAFETY.", meta.Subtitle)
	assert.Equal(t, "J. Payton", meta.Sponsor)
	assert.Equal(t,
		"TO AMEND THE LAW CONCERNING SCHOOL SAFETY; AND FOR OTHER PURPOSES.",
		meta.Summary)
}

func TestExtractNothingMatches(t *testing.T) {
	meta := Extract("plain text with no bill structure at all", "")
	assert.Nil(t, meta.DateFiled)
	assert.Empty(t, meta.Subtitle)
	assert.Empty(t, meta.Sponsor)
	assert.Empty(t, meta.Summary)
}

func TestExtractDateFiledOnlyInTrailingWindow(t *testing.T) {
	// A stamp buried early in a long page is outside the trailing window and
	// must not match.
	text := "01/08/2025 10:15:30 AM JLL083\n" + strings.Repeat("x", 600)
	meta := Extract(text, "")
	assert.Nil(t, meta.DateFiled)
}

func TestExtractDateFiledMalformedStamp(t *testing.T) {
	text := strings.Repeat("y", 100) + "\n13/45/2025 10:15:30 AM JLL083"
	meta := Extract(text, "")
	assert.Nil(t, meta.DateFiled)
}

func TestExtractSubtitleUppercaseLabel(t *testing.T) {
	meta := Extract("SUBTITLE: AN ACT TO DO X\n", "")
	assert.Equal(t, "AN ACT TO DO X", meta.Subtitle)
}

func TestExtractSponsorVariants(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"by representative", "By Representative Smith\n", "Smith"},
		{"by senators comma stop", "By Senators Irvin, Dismang\n", "Irvin"},
		{"sponsored by label", "Sponsored by: Representative L. Johnson\n", "Representative L. Johnson"},
		{"case relaxed sponsor label", "sponsor by: Dotson\n", "Dotson"},
		{"column gutter stop", "By Senator K. Hammer    District 33\n", "K. Hammer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := Extract(tc.text, "")
			assert.Equal(t, tc.want, meta.Sponsor)
		})
	}
}

func TestExtractSummaryCollapsesWhitespace(t *testing.T) {
	text := "AN ACT  TO\n  REGULATE   THINGS;\nAND FOR OTHER PURPOSES.\nBE IT ENACTED here"
	got := ExtractSummary(text)
	assert.Equal(t, "TO REGULATE THINGS; AND FOR OTHER PURPOSES.", got)
}

func TestExtractSummaryStopsAtEarliestMarker(t *testing.T) {
	text := "AN ACT TO FIX ROADS. Subtitle: later BE IT ENACTED even later"
	got := ExtractSummary(text)
	assert.Equal(t, "TO FIX ROADS.", got)
}

func TestExtractSummaryNoStartMarker(t *testing.T) {
	assert.Empty(t, ExtractSummary("no act marker present"))
}

func TestExtractFallsBackToFirstPageForSummary(t *testing.T) {
	meta := Extract("AN ACT TO TEST FALLBACK; BE IT ENACTED", "")
	assert.Equal(t, "TO TEST FALLBACK;", meta.Summary)
}
