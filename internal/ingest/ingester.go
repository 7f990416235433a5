package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/autumninthecloud/AIBillBrief/internal/billmeta"
	"github.com/autumninthecloud/AIBillBrief/internal/chunker"
	"github.com/autumninthecloud/AIBillBrief/internal/model"
	"github.com/autumninthecloud/AIBillBrief/internal/pkg/pdfextract"
)

// ChunkStore persists one document's record set. ReplaceDocument must purge
// all prior rows for the document id before writing, so re-ingestion replaces
// rather than appends.
type ChunkStore interface {
	ReplaceDocument(ctx context.Context, sourceFile string, records []model.BillChunk) error
}

// Ingester processes bill PDFs one at a time: no shared mutable state beyond
// the chunk store, so callers may shard disjoint document ids across workers
// if they ever need to.
type Ingester struct {
	splitter *chunker.Splitter
	store    ChunkStore
	csvDir   string // empty disables CSV export
	now      func() time.Time
}

func New(splitter *chunker.Splitter, store ChunkStore, csvDir string) *Ingester {
	return &Ingester{
		splitter: splitter,
		store:    store,
		csvDir:   csvDir,
		now:      time.Now,
	}
}

// IngestDir processes every .pdf in dir sequentially. A failing document is
// logged and skipped; the batch continues. Returns the number of documents
// successfully ingested.
func (ig *Ingester) IngestDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read bills dir failed: %w", err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return ingested, err
		}
		path := filepath.Join(dir, entry.Name())
		count, err := ig.IngestFile(ctx, path)
		if err != nil {
			log.Printf("ingest %s failed: %v", entry.Name(), err)
			continue
		}
		log.Printf("ingested %s: %d chunks", entry.Name(), count)
		ingested++
	}
	return ingested, nil
}

// IngestFile extracts, chunks, tags and persists a single PDF, returning the
// number of chunks written.
func (ig *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf failed: %w", err)
	}
	defer f.Close()

	text, err := pdfextract.Extract(f)
	if err != nil {
		return 0, fmt.Errorf("extract pdf text failed: %w", err)
	}

	chunks := ig.splitter.Split(text.Full)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no extractable text in %s", filepath.Base(path))
	}

	sourceFile := DocumentID(path)
	meta := billmeta.Extract(text.FirstPage, text.Full)
	records := BuildRecords(sourceFile, chunks, meta, ig.now())

	if ig.csvDir != "" {
		if err := WriteCSV(ig.csvDir, sourceFile, records); err != nil {
			return 0, err
		}
	}
	if err := ig.store.ReplaceDocument(ctx, sourceFile, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
