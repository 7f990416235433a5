package chunker

import "strings"

const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 300
)

// separators in preference order: paragraph, line, sentence, word. A chunk
// boundary lands right after the separator; a hard character cut is the last
// resort.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter splits document text into overlapping fixed-size segments.
//
// Invariants: no segment exceeds Size runes; each segment after the first
// begins exactly Overlap runes before the end of its predecessor, so stripping
// the first Overlap runes of every segment but the first reconstructs the
// sanitized input exactly.
type Splitter struct {
	size    int
	overlap int
}

func New(size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Splitter{size: size, overlap: overlap}
}

// Overlap reports the configured overlap in runes.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the ordered segments of text. Empty or blank input yields nil.
// Split never fails: arbitrary byte content is sanitized first.
func (s *Splitter) Split(text string) []string {
	runes := []rune(sanitize(text))
	if len(strings.TrimSpace(string(runes))) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for {
		end := start + s.size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}
		cut := s.cutPoint(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))
		start = cut - s.overlap
		if start < 0 {
			start = 0
		}
	}
}

// cutPoint backtracks from end toward a natural breakpoint. The search floor
// keeps every segment advancing past the overlap of the previous one, so hard
// cuts only happen inside long unbroken runs.
func (s *Splitter) cutPoint(runes []rune, start, end int) int {
	floor := end - s.size/5
	if floor <= start+s.overlap {
		floor = start + s.overlap + 1
	}
	if floor >= end {
		return end
	}
	for _, sep := range separators {
		if idx := lastIndexRunes(runes, floor, end, sep); idx >= 0 {
			return idx + len([]rune(sep))
		}
	}
	return end
}

// lastIndexRunes finds the last occurrence of sep fully inside [floor, end)
// of runes, returning its start index or -1.
func lastIndexRunes(runes []rune, floor, end int, sep string) int {
	sepRunes := []rune(sep)
	for i := end - len(sepRunes); i >= floor; i-- {
		match := true
		for j := range sepRunes {
			if runes[i+j] != sepRunes[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// sanitize replaces control characters with spaces so pattern matching and
// chunk boundaries never trip over NUL bytes or stray terminal codes embedded
// by PDF extraction. Newlines and tabs survive.
func sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, text)
}
