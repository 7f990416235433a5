package app

import (
	"context"
	"strings"

	"github.com/autumninthecloud/AIBillBrief/internal/model"
	"github.com/autumninthecloud/AIBillBrief/internal/repository"
	"github.com/autumninthecloud/AIBillBrief/internal/retrieval"
)

const recentBillCount = 5

// BillCache is the optional memoization layer for bill listings and stats.
type BillCache interface {
	GetRecentBills(ctx context.Context) ([]model.BillSummary, bool, error)
	SetRecentBills(ctx context.Context, bills []model.BillSummary) error
	GetStats(ctx context.Context) (*model.BillStats, bool, error)
	SetStats(ctx context.Context, stats *model.BillStats) error
}

// BillService answers questions about the bill corpus: retrieval queries,
// recent-bill listings and corpus statistics.
type BillService struct {
	chunkRepo *repository.BillChunkRepository
	cache     BillCache
	engine    *retrieval.Engine
	formatter *retrieval.Formatter
}

func NewBillService(
	chunkRepo *repository.BillChunkRepository,
	cache BillCache,
	engine *retrieval.Engine,
	formatter *retrieval.Formatter,
) *BillService {
	return &BillService{
		chunkRepo: chunkRepo,
		cache:     cache,
		engine:    engine,
		formatter: formatter,
	}
}

// BillQueryResult pairs the rendered context with the raw result rows.
type BillQueryResult struct {
	Mode             string            `json:"mode"`
	Summary          string            `json:"summary"`
	FormattedContext string            `json:"formatted_context"`
	Rows             []model.BillChunk `json:"rows"`
	Spans            []retrieval.Span  `json:"spans"`
}

// Query classifies the question, retrieves matching chunk spans and renders
// them. It never fails: backend errors surface as an empty result.
func (s *BillService) Query(ctx context.Context, question string, limit int) *BillQueryResult {
	question = strings.TrimSpace(question)
	if question == "" {
		return &BillQueryResult{Mode: retrieval.ModeFullText.String()}
	}
	result := s.engine.Retrieve(ctx, question, limit)
	return &BillQueryResult{
		Mode:             result.Mode.String(),
		Summary:          result.Summary,
		FormattedContext: s.formatter.Render(result.Spans),
		Rows:             result.Rows,
		Spans:            result.Spans,
	}
}

// Reference renders the markdown bill link for a document id.
func (s *BillService) Reference(sourceFile string) string {
	return s.formatter.Reference(sourceFile)
}

// RecentBills lists the most recently filed bills, cache-aside.
func (s *BillService) RecentBills(ctx context.Context) ([]model.BillSummary, error) {
	if s.cache != nil {
		if bills, hit, err := s.cache.GetRecentBills(ctx); err == nil && hit {
			return bills, nil
		}
	}
	bills, err := s.chunkRepo.RecentBills(ctx, recentBillCount)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetRecentBills(ctx, bills)
	}
	return bills, nil
}

// Stats reports corpus totals, cache-aside.
func (s *BillService) Stats(ctx context.Context) (*model.BillStats, error) {
	if s.cache != nil {
		if stats, hit, err := s.cache.GetStats(ctx); err == nil && hit {
			return stats, nil
		}
	}
	stats, err := s.chunkRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetStats(ctx, stats)
	}
	return stats, nil
}
