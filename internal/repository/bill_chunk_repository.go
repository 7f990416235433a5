package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/autumninthecloud/AIBillBrief/internal/model"
)

// BillChunkRepository is the chunk table behind both ingestion and retrieval.
type BillChunkRepository struct {
	db *gorm.DB
}

func NewBillChunkRepository(db *gorm.DB) *BillChunkRepository {
	return &BillChunkRepository{db: db}
}

// ReplaceDocument purges all rows for the document id and writes the new
// record set in one transaction. Re-ingestion therefore replaces, never
// appends.
func (r *BillChunkRepository) ReplaceDocument(ctx context.Context, sourceFile string, records []model.BillChunk) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("UPPER(source_file) = ?", strings.ToUpper(sourceFile)).
			Delete(&model.BillChunk{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("replace bill chunks for %s failed: %w", sourceFile, err)
	}
	return nil
}

// DocumentChunks returns every chunk of one bill, ordered by chunk index.
// Document id comparison is case-insensitive.
func (r *BillChunkRepository) DocumentChunks(ctx context.Context, sourceFile string) ([]model.BillChunk, error) {
	var chunks []model.BillChunk
	err := r.db.WithContext(ctx).
		Where("UPPER(source_file) = ?", strings.ToUpper(sourceFile)).
		Order("chunk_index ASC").
		Find(&chunks).Error
	if err != nil {
		return nil, fmt.Errorf("list chunks for %s failed: %w", sourceFile, err)
	}
	return chunks, nil
}

// DocumentsByType lists the distinct bills of one chamber prefix ("SB" or
// "HB") via their first chunks, which carry the denormalized metadata.
func (r *BillChunkRepository) DocumentsByType(ctx context.Context, billType string) ([]model.BillSummary, error) {
	var bills []model.BillSummary
	err := r.db.WithContext(ctx).
		Model(&model.BillChunk{}).
		Select("source_file", "bill_subtitle", "bill_sponsor", "date_filed").
		Where("chunk_index = 0 AND UPPER(source_file) LIKE ?", strings.ToUpper(billType)+"%").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("list bills by type %s failed: %w", billType, err)
	}
	return bills, nil
}

// FirstChunks returns chunk 0 of every document, for sponsor-line scans.
func (r *BillChunkRepository) FirstChunks(ctx context.Context) ([]model.BillChunk, error) {
	var chunks []model.BillChunk
	err := r.db.WithContext(ctx).
		Where("chunk_index = 0").
		Order("source_file ASC").
		Find(&chunks).Error
	if err != nil {
		return nil, fmt.Errorf("list first chunks failed: %w", err)
	}
	return chunks, nil
}

// SearchChunks runs a containment query over chunk text, ordered by chunk
// index, limited to limit rows.
func (r *BillChunkRepository) SearchChunks(ctx context.Context, query string, limit int) ([]model.BillChunk, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	var chunks []model.BillChunk
	err := r.db.WithContext(ctx).
		Where("chunk LIKE ?", "%"+query+"%").
		Order("chunk_index ASC").
		Limit(limit).
		Find(&chunks).Error
	if err != nil {
		return nil, fmt.Errorf("search chunks failed: %w", err)
	}
	return chunks, nil
}

// RecentBills lists the most recently filed distinct bills.
func (r *BillChunkRepository) RecentBills(ctx context.Context, limit int) ([]model.BillSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	var bills []model.BillSummary
	err := r.db.WithContext(ctx).
		Model(&model.BillChunk{}).
		Select("source_file", "bill_subtitle", "bill_sponsor", "date_filed").
		Where("chunk_index = 0").
		Order("date_filed DESC").
		Limit(limit).
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("list recent bills failed: %w", err)
	}
	return bills, nil
}

// Stats reports corpus totals for the prompt preamble.
func (r *BillChunkRepository) Stats(ctx context.Context) (*model.BillStats, error) {
	var stats model.BillStats
	err := r.db.WithContext(ctx).
		Model(&model.BillChunk{}).
		Select("COUNT(DISTINCT source_file) AS total_bills", "MAX(date_filed) AS latest_file_date").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("bill stats failed: %w", err)
	}
	return &stats, nil
}
