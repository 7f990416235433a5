package retrieval

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/autumninthecloud/AIBillBrief/internal/billmeta"
	"github.com/autumninthecloud/AIBillBrief/internal/model"
)

const defaultLimit = 5

// Store is the retrieval backend. Implementations must return document
// chunks ordered by chunk index; id comparison is case-insensitive.
type Store interface {
	DocumentChunks(ctx context.Context, sourceFile string) ([]model.BillChunk, error)
	DocumentsByType(ctx context.Context, billType string) ([]model.BillSummary, error)
	FirstChunks(ctx context.Context) ([]model.BillChunk, error)
	SearchChunks(ctx context.Context, query string, limit int) ([]model.BillChunk, error)
}

// Span groups one document's retrieved chunks, ordered by chunk index, with
// the header fields the formatter renders above them. Summary is derived from
// chunk text at query time, not read from storage.
type Span struct {
	SourceFile string
	Chunks     []model.BillChunk
	Subtitle   string
	Sponsor    string
	DateFiled  *time.Time
	Summary    string
}

// Result is what a question retrieves: per-document spans in first-seen
// order, the raw rows, and a line describing which retrieval mode fired.
// A backend failure yields an empty Result, never an error.
type Result struct {
	Mode    Mode              `json:"mode"`
	Summary string            `json:"summary"`
	Spans   []Span            `json:"spans"`
	Rows    []model.BillChunk `json:"rows"`
}

// Engine classifies questions and executes the matching retrieval strategy.
type Engine struct {
	store Store
	limit int
}

func NewEngine(store Store, limit int) *Engine {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Engine{store: store, limit: limit}
}

// Retrieve answers a question with grouped chunk spans. limit caps only the
// free-text fallback; the other modes return whole documents. Backend errors
// degrade to an empty result with an empty summary so the caller can render
// "no results" instead of an error page.
func (e *Engine) Retrieve(ctx context.Context, question string, limit int) *Result {
	if limit <= 0 {
		limit = e.limit
	}
	q := Classify(question)

	var rows []model.BillChunk
	var err error
	switch q.Mode {
	case ModeSpecificBill:
		rows, err = e.store.DocumentChunks(ctx, q.BillID)
	case ModeBillType:
		rows, err = e.retrieveMostRecent(ctx, q.BillType)
	case ModeSponsor:
		rows, err = e.retrieveBySponsor(ctx, q.Sponsor)
	default:
		rows, err = e.store.SearchChunks(ctx, strings.TrimSpace(question), limit)
	}
	if err != nil {
		log.Printf("retrieval degraded to empty result: %v", err)
		return &Result{Mode: q.Mode}
	}

	spans := groupRows(rows)
	return &Result{
		Mode:    q.Mode,
		Summary: q.describe(len(spans), len(rows)),
		Spans:   spans,
		Rows:    rows,
	}
}

// retrieveMostRecent returns all chunks of the single most recently filed
// bill of the given type. Ordering is filing date first, then numeric bill
// number: ids are not strictly chronological, so with equal or missing dates
// the higher-numbered filing wins (HB45 over HB9).
func (e *Engine) retrieveMostRecent(ctx context.Context, billType string) ([]model.BillChunk, error) {
	bills, err := e.store.DocumentsByType(ctx, billType)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, nil
	}
	best := bills[0]
	for _, b := range bills[1:] {
		if moreRecent(b, best) {
			best = b
		}
	}
	return e.store.DocumentChunks(ctx, best.SourceFile)
}

// retrieveBySponsor matches the captured name as a case-insensitive substring
// of a "By:" sponsor marker line in each document's first chunk, and returns
// the full chunk sets of every matching document.
func (e *Engine) retrieveBySponsor(ctx context.Context, name string) ([]model.BillChunk, error) {
	firsts, err := e.store.FirstChunks(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.BillChunk
	for _, first := range firsts {
		if !sponsorLineContains(first.Chunk, name) {
			continue
		}
		chunks, err := e.store.DocumentChunks(ctx, first.SourceFile)
		if err != nil {
			return nil, err
		}
		rows = append(rows, chunks...)
	}
	return rows, nil
}

// sponsorLineContains reports whether any line carrying a "By:" marker
// contains name, both compared case-insensitively.
func sponsorLineContains(chunkText, name string) bool {
	needle := strings.ToLower(name)
	for _, line := range strings.Split(chunkText, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "by:") && strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

// groupRows buckets rows by document id preserving first-seen order, sorts
// each bucket by chunk index, and derives the span header from the bucket's
// leading chunk. Documents with no rows never produce a span.
func groupRows(rows []model.BillChunk) []Span {
	if len(rows) == 0 {
		return nil
	}

	order := make([]string, 0, 4)
	buckets := make(map[string][]model.BillChunk)
	for _, row := range rows {
		key := strings.ToUpper(row.SourceFile)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], row)
	}

	spans := make([]Span, 0, len(order))
	for _, key := range order {
		chunks := buckets[key]
		sort.SliceStable(chunks, func(i, j int) bool {
			return chunks[i].ChunkIndex < chunks[j].ChunkIndex
		})
		head := chunks[0]
		spans = append(spans, Span{
			SourceFile: head.SourceFile,
			Chunks:     chunks,
			Subtitle:   head.Subtitle(),
			Sponsor:    head.Sponsor(),
			DateFiled:  head.DateFiled,
			Summary:    billmeta.ExtractSummary(head.Chunk),
		})
	}
	return spans
}

var billNumberPattern = regexp.MustCompile(`\d+`)

func moreRecent(a, b model.BillSummary) bool {
	switch {
	case a.DateFiled != nil && b.DateFiled == nil:
		return true
	case a.DateFiled == nil && b.DateFiled != nil:
		return false
	case a.DateFiled != nil && b.DateFiled != nil && !a.DateFiled.Equal(*b.DateFiled):
		return a.DateFiled.After(*b.DateFiled)
	}
	an, bn := billNumber(a.SourceFile), billNumber(b.SourceFile)
	if an != bn {
		return an > bn
	}
	return strings.ToUpper(a.SourceFile) > strings.ToUpper(b.SourceFile)
}

func billNumber(sourceFile string) int {
	m := billNumberPattern.FindString(sourceFile)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
