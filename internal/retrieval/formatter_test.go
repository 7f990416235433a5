package retrieval

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autumninthecloud/AIBillBrief/internal/model"
)

func TestBillURLExactTemplate(t *testing.T) {
	f := NewFormatter("arkleg.state.ar.us", "2025R")
	assert.Equal(t,
		"https://arkleg.state.ar.us/Home/FTPDocument?path=%2FBills%2F2025R%2FPublic%2FSB8.pdf",
		f.BillURL("SB8"))
}

func TestReferenceMarkdownLink(t *testing.T) {
	f := NewFormatter("", "")
	assert.Equal(t,
		"[HB1001](https://arkleg.state.ar.us/Home/FTPDocument?path=%2FBills%2F2025R%2FPublic%2FHB1001.pdf)",
		f.Reference("HB1001"))
}

func TestRenderSpanFullHeader(t *testing.T) {
	filed := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	f := NewFormatter("", "")
	out := f.RenderSpan(Span{
		SourceFile: "SB8",
		Subtitle:   "TO AMEND THE LAW.",
		Sponsor:    "J. Payton",
		DateFiled:  &filed,
		Summary:    "TO AMEND THE LAW CONCERNING SCHOOLS.",
		Chunks: []model.BillChunk{
			{SourceFile: "SB8", ChunkIndex: 0, Chunk: "first chunk body"},
			{SourceFile: "SB8", ChunkIndex: 1, Chunk: "second chunk body"},
		},
	})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "From [SB8]("))
	assert.Equal(t, "Summary: TO AMEND THE LAW CONCERNING SCHOOLS.", lines[1])
	assert.Equal(t, "Subtitle: TO AMEND THE LAW.", lines[2])
	assert.Equal(t, "Sponsor: J. Payton | Filed: 2025-01-08", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "first chunk body", lines[5])
	assert.Equal(t, "second chunk body", lines[6])
}

func TestRenderSpanOmitsSummaryEqualToSubtitle(t *testing.T) {
	f := NewFormatter("", "")
	out := f.RenderSpan(Span{
		SourceFile: "SB8",
		Subtitle:   "TO AMEND THE LAW.",
		Summary:    "to amend the law.",
		Chunks:     []model.BillChunk{{Chunk: "body"}},
	})
	assert.NotContains(t, out, "Summary:")
	assert.Contains(t, out, "Subtitle: TO AMEND THE LAW.")
}

func TestRenderSpanOmitsAbsentFields(t *testing.T) {
	f := NewFormatter("", "")
	out := f.RenderSpan(Span{
		SourceFile: "HB2",
		Chunks:     []model.BillChunk{{Chunk: "body"}},
	})
	assert.NotContains(t, out, "Summary:")
	assert.NotContains(t, out, "Subtitle:")
	assert.NotContains(t, out, "Sponsor:")
	assert.NotContains(t, out, "Filed:")
	assert.NotContains(t, out, "N/A")
	assert.Contains(t, out, "body")
}

func TestRenderJoinsSpansWithSeparator(t *testing.T) {
	f := NewFormatter("", "")
	out := f.Render([]Span{
		{SourceFile: "SB1", Chunks: []model.BillChunk{{Chunk: "one"}}},
		{SourceFile: "SB2", Chunks: []model.BillChunk{{Chunk: "two"}}},
	})
	parts := strings.Split(out, "\n---\n")
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "SB1")
	assert.Contains(t, parts[1], "SB2")
}

func TestRenderEmptySpans(t *testing.T) {
	f := NewFormatter("", "")
	assert.Equal(t, "", f.Render(nil))
}
