package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autumninthecloud/AIBillBrief/internal/model"
)

// stubStore serves canned chunk data keyed by uppercase document id.
type stubStore struct {
	docs    map[string][]model.BillChunk
	err     error
	queries []string
}

func (s *stubStore) DocumentChunks(_ context.Context, sourceFile string) ([]model.BillChunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.docs[strings.ToUpper(sourceFile)], nil
}

func (s *stubStore) DocumentsByType(_ context.Context, billType string) ([]model.BillSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.BillSummary
	for id, chunks := range s.docs {
		if !strings.HasPrefix(id, strings.ToUpper(billType)) {
			continue
		}
		head := chunks[0]
		out = append(out, model.BillSummary{
			SourceFile: head.SourceFile,
			DateFiled:  head.DateFiled,
		})
	}
	return out, nil
}

func (s *stubStore) FirstChunks(_ context.Context) ([]model.BillChunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.BillChunk
	for _, chunks := range s.docs {
		out = append(out, chunks[0])
	}
	return out, nil
}

func (s *stubStore) SearchChunks(_ context.Context, query string, limit int) ([]model.BillChunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.queries = append(s.queries, query)
	var out []model.BillChunk
	for _, chunks := range s.docs {
		for _, c := range chunks {
			if strings.Contains(strings.ToLower(c.Chunk), strings.ToLower(query)) {
				out = append(out, c)
				if len(out) >= limit {
					return out, nil
				}
			}
		}
	}
	return out, nil
}

func ptrTime(t time.Time) *time.Time { return &t }

func chunk(sourceFile string, index int, text string, filed *time.Time) model.BillChunk {
	return model.BillChunk{
		SourceFile:  sourceFile,
		Chunk:       text,
		ChunkIndex:  index,
		ChunkLength: len([]rune(text)),
		DateFiled:   filed,
	}
}

func TestRetrieveSpecificBillOrdersChunks(t *testing.T) {
	filed := ptrTime(time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC))
	store := &stubStore{docs: map[string][]model.BillChunk{
		"SB8": {
			chunk("SB8", 0, "By: Senator Payton\nAN ACT TO DO X; BE IT ENACTED", filed),
			chunk("SB8", 1, "section two text", filed),
		},
	}}
	engine := NewEngine(store, 5)

	result := engine.Retrieve(context.Background(), "what does SB8 do?", 0)
	assert.Equal(t, ModeSpecificBill, result.Mode)
	require.Len(t, result.Spans, 1)
	span := result.Spans[0]
	assert.Equal(t, "SB8", span.SourceFile)
	require.Len(t, span.Chunks, 2)
	assert.Equal(t, 0, span.Chunks[0].ChunkIndex)
	assert.Equal(t, 1, span.Chunks[1].ChunkIndex)
	assert.Equal(t, "TO DO X;", span.Summary)
	assert.Contains(t, result.Summary, "SB8")
}

func TestRetrieveUnknownBillIsEmptyNotError(t *testing.T) {
	store := &stubStore{docs: map[string][]model.BillChunk{}}
	engine := NewEngine(store, 5)

	result := engine.Retrieve(context.Background(), "tell me about HB9999", 0)
	assert.Equal(t, ModeSpecificBill, result.Mode)
	assert.Empty(t, result.Spans)
	assert.Empty(t, result.Rows)
}

func TestRetrieveMostRecentPrefersDateThenNumber(t *testing.T) {
	jan := ptrTime(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	feb := ptrTime(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	store := &stubStore{docs: map[string][]model.BillChunk{
		"HB1":  {chunk("HB1", 0, "first bill", jan)},
		"HB45": {chunk("HB45", 0, "forty five", feb)},
		"HB9":  {chunk("HB9", 0, "nine", feb)},
		"SB99": {chunk("SB99", 0, "senate bill", feb)},
	}}
	engine := NewEngine(store, 5)

	// HB45 and HB9 share the latest date; the higher bill number wins.
	result := engine.Retrieve(context.Background(), "show me the most recent house bill", 0)
	assert.Equal(t, ModeBillType, result.Mode)
	require.Len(t, result.Spans, 1)
	assert.Equal(t, "HB45", result.Spans[0].SourceFile)
}

func TestRetrieveMostRecentNilDatesSortLast(t *testing.T) {
	filed := ptrTime(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	store := &stubStore{docs: map[string][]model.BillChunk{
		"SB3": {chunk("SB3", 0, "dated", filed)},
		"SB7": {chunk("SB7", 0, "undated", nil)},
	}}
	engine := NewEngine(store, 5)

	result := engine.Retrieve(context.Background(), "latest senate bill?", 0)
	require.Len(t, result.Spans, 1)
	assert.Equal(t, "SB3", result.Spans[0].SourceFile)
}

func TestRetrieveBySponsorGroupsWholeDocuments(t *testing.T) {
	store := &stubStore{docs: map[string][]model.BillChunk{
		"SB8": {
			chunk("SB8", 0, "By: Senator Payton\nAN ACT ONE", nil),
			chunk("SB8", 1, "more of sb8", nil),
		},
		"HB2": {chunk("HB2", 0, "By: Representative Smith\nAN ACT TWO", nil)},
	}}
	engine := NewEngine(store, 5)

	result := engine.Retrieve(context.Background(), "what has Senator Payton filed?", 0)
	assert.Equal(t, ModeSponsor, result.Mode)
	require.Len(t, result.Spans, 1)
	assert.Equal(t, "SB8", result.Spans[0].SourceFile)
	assert.Len(t, result.Spans[0].Chunks, 2)
	assert.Contains(t, result.Summary, "Payton")
}

func TestRetrieveBySponsorCaseInsensitiveSubstring(t *testing.T) {
	store := &stubStore{docs: map[string][]model.BillChunk{
		"SB8": {chunk("SB8", 0, "BY: SENATOR J. PAYTON\ntext", nil)},
	}}
	engine := NewEngine(store, 5)

	result := engine.Retrieve(context.Background(), "bills by Senator Payton", 0)
	require.Len(t, result.Spans, 1)
	assert.Equal(t, "SB8", result.Spans[0].SourceFile)
}

func TestRetrieveFullTextGroupsByDocument(t *testing.T) {
	store := &stubStore{docs: map[string][]model.BillChunk{
		"SB1": {
			chunk("SB1", 0, "teacher pay raise provisions", nil),
			chunk("SB1", 3, "more teacher pay detail", nil),
		},
	}}
	engine := NewEngine(store, 5)

	result := engine.Retrieve(context.Background(), "teacher pay", 0)
	assert.Equal(t, ModeFullText, result.Mode)
	require.Len(t, result.Spans, 1)
	assert.Len(t, result.Spans[0].Chunks, 2)
	assert.Len(t, result.Rows, 2)
}

func TestRetrieveStoreErrorDegradesToEmptyResult(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	engine := NewEngine(store, 5)

	for _, question := range []string{
		"what does SB8 do?",
		"latest house bill",
		"bills by Senator Payton",
		"teacher pay",
	} {
		result := engine.Retrieve(context.Background(), question, 0)
		require.NotNil(t, result, question)
		assert.Empty(t, result.Spans, question)
		assert.Empty(t, result.Rows, question)
		assert.Empty(t, result.Summary, question)
	}
}

func TestRetrieveLimitFallsBackToEngineDefault(t *testing.T) {
	store := &stubStore{docs: map[string][]model.BillChunk{}}
	engine := NewEngine(store, 3)

	engine.Retrieve(context.Background(), "some free text", 0)
	require.Len(t, store.queries, 1)
}
