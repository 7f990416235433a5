package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/autumninthecloud/AIBillBrief/internal/model"
)

// csvHeader is the fixed export column order; downstream loaders append the
// per-document CSVs into one logical chunk table.
var csvHeader = []string{
	"chunk", "chunk_index", "source_file", "chunk_length",
	"timestamp", "date_filed", "bill_subtitle", "bill_sponsor",
}

const csvTimeLayout = "2006-01-02 15:04:05"

// WriteCSV writes one document's records to <dir>/<sourceFile>.csv,
// overwriting any previous export for the same document.
func WriteCSV(dir, sourceFile string, records []model.BillChunk) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create csv dir failed: %w", err)
	}

	path := filepath.Join(dir, sourceFile+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file failed: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header failed: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Chunk,
			strconv.Itoa(r.ChunkIndex),
			r.SourceFile,
			strconv.Itoa(r.ChunkLength),
			r.Timestamp.Format(csvTimeLayout),
			formatNullableTime(r),
			r.Subtitle(),
			r.Sponsor(),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row failed: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv failed: %w", err)
	}
	return nil
}

func formatNullableTime(r model.BillChunk) string {
	if r.DateFiled == nil {
		return ""
	}
	return r.DateFiled.Format(csvTimeLayout)
}
