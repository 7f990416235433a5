// Package ingest turns bill PDFs into persisted chunk records: extract text,
// split into overlapping chunks, tag every chunk with the document's
// extracted metadata, and replace the document's rows in the chunk store.
package ingest

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/autumninthecloud/AIBillBrief/internal/billmeta"
	"github.com/autumninthecloud/AIBillBrief/internal/model"
)

// DocumentID derives the canonical bill id from a PDF filename: base name
// without extension, upper-cased (sb8.pdf -> SB8).
func DocumentID(filename string) string {
	base := filepath.Base(filename)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// BuildRecords merges a document's chunk sequence with its extracted metadata
// into persistable records. Each record carries a copy of the document-level
// metadata so a single-row read is self-describing. Chunk indexes are 0-based
// and sequential.
func BuildRecords(sourceFile string, chunks []string, meta billmeta.Metadata, ingestedAt time.Time) []model.BillChunk {
	records := make([]model.BillChunk, 0, len(chunks))
	for i, text := range chunks {
		records = append(records, model.BillChunk{
			SourceFile:   sourceFile,
			Chunk:        text,
			ChunkIndex:   i,
			ChunkLength:  len([]rune(text)),
			BillSubtitle: optional(meta.Subtitle),
			BillSponsor:  optional(meta.Sponsor),
			DateFiled:    meta.DateFiled,
			Timestamp:    ingestedAt,
		})
	}
	return records
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
