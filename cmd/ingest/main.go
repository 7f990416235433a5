// Command ingest loads a directory of bill PDFs into the chunk table,
// optionally exporting the per-document CSV files alongside.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/autumninthecloud/AIBillBrief/internal/chunker"
	"github.com/autumninthecloud/AIBillBrief/internal/config"
	"github.com/autumninthecloud/AIBillBrief/internal/ingest"
	"github.com/autumninthecloud/AIBillBrief/internal/model"
	mysqlClient "github.com/autumninthecloud/AIBillBrief/internal/platform/mysql"
	"github.com/autumninthecloud/AIBillBrief/internal/repository"
)

func main() {
	var (
		billsDir = flag.String("bills", "", "directory of bill PDFs (default from config)")
		csvDir   = flag.String("csv", "", "directory for CSV exports, empty disables (default from config)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if *billsDir == "" {
		*billsDir = cfg.Ingest.BillsDir
	}
	if *csvDir == "" {
		*csvDir = cfg.Ingest.CSVDir
	}

	ctx := context.Background()
	db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("connect mysql failed: %v", err)
	}
	if err := db.AutoMigrate(&model.BillChunk{}); err != nil {
		log.Fatalf("auto migrate bill_chunks failed: %v", err)
	}

	splitter := chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	chunkRepo := repository.NewBillChunkRepository(db)
	ingester := ingest.New(splitter, chunkRepo, *csvDir)

	count, err := ingester.IngestDir(ctx, *billsDir)
	if err != nil {
		log.Fatalf("ingest failed after %d documents: %v", count, err)
	}
	log.Printf("ingested %d documents from %s", count, *billsDir)
}
