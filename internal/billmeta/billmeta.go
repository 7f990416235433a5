// Package billmeta recovers structured fields from the unstructured text of a
// legislative bill. Extraction is best-effort over OCR-quality text: every
// field defaults to absent when nothing matches, and a malformed value is
// dropped rather than surfaced as an error.
package billmeta

import (
	"regexp"
	"strings"
	"time"
)

// Windows over the first-page text each field is searched in. The filing
// stamp sits at the bottom of the page, the labels near the top.
const (
	dateWindow     = 500
	subtitleWindow = 1500
	sponsorWindow  = 1000
)

// Metadata holds the structured fields of one bill. Zero values mean the
// field was not found.
type Metadata struct {
	DateFiled *time.Time
	Subtitle  string
	Sponsor   string
	Summary   string
}

// Filing stamp: MM/DD/YYYY HH:MM:SS AM|PM followed by a source code suffix.
var dateFiledPattern = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s+(\d{1,2}:\d{2}:\d{2})\s*([AP]M)\s+\S+`)

// Ordered candidates per field; the first match wins and the rest are never
// consulted. Precision over recall.
var subtitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)SUBTITLE:[ \t]*(.+)`),
	regexp.MustCompile(`(?m)Subtitle:[ \t]*(.+)`),
	regexp.MustCompile(`(?mi)SUBTITLE OF THE BILL:[ \t]*(.+)`),
	regexp.MustCompile(`(?mi)SUBTITLE[ \t]*:[ \t]*(.+)`),
}

// Sponsor name capture stops at a newline, a comma, or a run of two or more
// spaces (column gutters in the extracted layout).
var sponsorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`By:?\s+(?:Representatives?|Senators?)\s+([^,\n]+?)(?:\s{2,}|,|\n|$)`),
	regexp.MustCompile(`Sponsored by:\s*([^,\n]+?)(?:\s{2,}|,|\n|$)`),
	regexp.MustCompile(`(?i)SPONSOR(?:ED)?\s+BY:\s*([^,\n]+?)(?:\s{2,}|,|\n|$)`),
}

var (
	summaryStartMarker = "AN ACT"
	summaryEndMarkers  = []string{"BE IT ENACTED", "Subtitle", "SUBTITLE"}
	whitespaceRun      = regexp.MustCompile(`\s+`)
)

// Extract scans a bill's first-page text (and the whole-document text, for
// the summary) and returns whatever fields matched. Fields are evaluated
// independently; a miss in one never affects another.
func Extract(firstPage, fullText string) Metadata {
	if fullText == "" {
		fullText = firstPage
	}
	return Metadata{
		DateFiled: extractDateFiled(firstPage),
		Subtitle:  extractSubtitle(firstPage),
		Sponsor:   extractSponsor(firstPage),
		Summary:   ExtractSummary(fullText),
	}
}

// extractDateFiled looks for the filing stamp in the trailing window of the
// first page and parses its date/time portion, discarding the source-code
// suffix. A stamp that will not parse leaves the field absent.
func extractDateFiled(text string) *time.Time {
	window := text
	if len(window) > dateWindow {
		window = window[len(window)-dateWindow:]
	}
	m := dateFiledPattern.FindStringSubmatch(window)
	if m == nil {
		return nil
	}
	parsed, err := time.Parse("01/02/2006 3:04:05 PM", m[1]+" "+m[2]+" "+m[3])
	if err != nil {
		return nil
	}
	return &parsed
}

func extractSubtitle(text string) string {
	return firstMatch(subtitlePatterns, leading(text, subtitleWindow))
}

func extractSponsor(text string) string {
	return firstMatch(sponsorPatterns, leading(text, sponsorWindow))
}

// ExtractSummary pulls the free-text run between the AN ACT marker and
// whichever end marker comes first, collapsing internal whitespace. Used both
// at ingestion and at query time on chunk text.
func ExtractSummary(text string) string {
	start := strings.Index(text, summaryStartMarker)
	if start < 0 {
		return ""
	}
	body := text[start+len(summaryStartMarker):]

	end := len(body)
	for _, marker := range summaryEndMarkers {
		if idx := strings.Index(body, marker); idx >= 0 && idx < end {
			end = idx
		}
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(body[:end], " "))
}

func firstMatch(patterns []*regexp.Regexp, window string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(window); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func leading(text string, n int) string {
	if len(text) > n {
		return text[:n]
	}
	return text
}
