// Package retrieval routes a free-text question to one of four retrieval
// strategies and assembles the matching chunk spans with their rendered
// context. The store behind it is injected so the routing logic stays pure.
package retrieval

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode is the retrieval strategy a question was routed to.
type Mode int

const (
	ModeSpecificBill Mode = iota
	ModeBillType
	ModeSponsor
	ModeFullText
)

func (m Mode) String() string {
	switch m {
	case ModeSpecificBill:
		return "specific_bill"
	case ModeBillType:
		return "bill_type"
	case ModeSponsor:
		return "sponsor"
	default:
		return "full_text"
	}
}

// Query is the classified form of a user question.
type Query struct {
	Mode     Mode
	BillID   string // canonical id, e.g. SB8, for ModeSpecificBill
	BillType string // "SB" or "HB" for ModeBillType
	Sponsor  string // captured name for ModeSponsor
	Text     string // the original question
}

var (
	senateBillPattern = regexp.MustCompile(`(?i)\b(?:SB|Senate\s+Bill)\s*(\d+)\b`)
	houseBillPattern  = regexp.MustCompile(`(?i)\b(?:HB|House\s+Bill)\s*(\d+)\b`)

	houseBrowsePattern  = regexp.MustCompile(`(?i)\bhouse\s+bills?\b`)
	senateBrowsePattern = regexp.MustCompile(`(?i)\bsenate\s+bills?\b`)
	browseCuePattern    = regexp.MustCompile(`(?i)\b(?:recent|latest|newest|last|current|show|list)\b`)

	// Name capture needs capitalized words so trailing verbs ("filed",
	// "sponsored") do not ride along; the cue word itself is case-relaxed.
	sponsorCuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[Ss]enator\s+([A-Z][\w'.-]*(?:\s+[A-Z][\w'.-]*)*)`),
		regexp.MustCompile(`\b[Rr]epresentative\s+([A-Z][\w'.-]*(?:\s+[A-Z][\w'.-]*)*)`),
		regexp.MustCompile(`(?i)\bsponsored\s+by\s+([^?,.\n]+?)(?:[?,.]|$)`),
	}
)

// Classify routes a question through the strategy rules in strict priority
// order; the first matching rule wins and no rules are combined.
func Classify(question string) Query {
	q := Query{Text: question}

	if id := matchSpecificBill(question); id != "" {
		q.Mode = ModeSpecificBill
		q.BillID = id
		return q
	}

	if billType := matchBillTypeBrowse(question); billType != "" {
		q.Mode = ModeBillType
		q.BillType = billType
		return q
	}

	if name := matchSponsor(question); name != "" {
		q.Mode = ModeSponsor
		q.Sponsor = name
		return q
	}

	q.Mode = ModeFullText
	return q
}

// matchSpecificBill returns the canonical bill id for an explicit reference
// like "SB 8" or "House Bill 1234". When both chambers are mentioned, the
// earlier reference in the question wins.
func matchSpecificBill(question string) string {
	type hit struct {
		pos int
		id  string
	}
	var hits []hit
	if loc := senateBillPattern.FindStringSubmatchIndex(question); loc != nil {
		hits = append(hits, hit{loc[0], "SB" + question[loc[2]:loc[3]]})
	}
	if loc := houseBillPattern.FindStringSubmatchIndex(question); loc != nil {
		hits = append(hits, hit{loc[0], "HB" + question[loc[2]:loc[3]]})
	}
	if len(hits) == 0 {
		return ""
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h.pos < best.pos {
			best = h
		}
	}
	return best.id
}

// matchBillTypeBrowse detects a browse request ("show me a recent house
// bill") without a specific number.
func matchBillTypeBrowse(question string) string {
	if !browseCuePattern.MatchString(question) {
		return ""
	}
	housePos := -1
	senatePos := -1
	if loc := houseBrowsePattern.FindStringIndex(question); loc != nil {
		housePos = loc[0]
	}
	if loc := senateBrowsePattern.FindStringIndex(question); loc != nil {
		senatePos = loc[0]
	}
	switch {
	case housePos >= 0 && (senatePos < 0 || housePos < senatePos):
		return "HB"
	case senatePos >= 0:
		return "SB"
	default:
		return ""
	}
}

// matchSponsor captures a legislator name from a sponsor-reference phrase.
// Ordered candidates, first hit wins.
func matchSponsor(question string) string {
	for _, p := range sponsorCuePatterns {
		if m := p.FindStringSubmatch(question); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" {
				return name
			}
		}
	}
	return ""
}

// describe renders the human-readable summary line for a fired mode.
func (q Query) describe(spanCount, rowCount int) string {
	switch q.Mode {
	case ModeSpecificBill:
		return fmt.Sprintf("Looked up bill %s (%d chunks).", q.BillID, rowCount)
	case ModeBillType:
		chamber := "Senate"
		if q.BillType == "HB" {
			chamber = "House"
		}
		return fmt.Sprintf("Retrieved the most recently filed %s bill.", chamber)
	case ModeSponsor:
		return fmt.Sprintf("Found %d bill(s) sponsored by %s.", spanCount, q.Sponsor)
	default:
		return fmt.Sprintf("Full-text search returned %d chunk(s).", rowCount)
	}
}
