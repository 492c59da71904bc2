package service

import (
	"context"
	"log"
	"sync"
	"time"

	"salestat/internal/domain/model"
	"salestat/internal/domain/repository"
	"salestat/internal/domain/useCases"
)

// SnapshotReportService builds a fresh report from each snapshot of sales and
// keeps the latest one available for the API layer. It follows the dependency
// inversion principle by depending only on repository interfaces; both the
// cache and the persistence backend are optional.
type SnapshotReportService struct {
	mu      sync.RWMutex
	latest  *model.Report
	cache   repository.ReportCache
	storage repository.SalePersistence
}

// NewSnapshotReportService creates a report service with the provided cache
// and storage implementations. Either may be nil: without a cache the latest
// report only lives in memory, without storage no sale history is kept.
func NewSnapshotReportService(cache repository.ReportCache, storage repository.SalePersistence) *SnapshotReportService {
	return &SnapshotReportService{
		cache:   cache,
		storage: storage,
	}
}

// ProcessSnapshot aggregates one snapshot of sales, replaces the latest
// report and writes through to the cache and the sale history. Each snapshot
// is a complete, independent view of the source; nothing carries over from
// the previous cycle.
func (s *SnapshotReportService) ProcessSnapshot(ctx context.Context, sales []model.Sale, asOf time.Time) (*model.Report, error) {
	report := Aggregate(sales, asOf)
	report.LastUpdate = time.Now()

	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()

	var err error
	if s.cache != nil {
		err = s.cache.SaveReport(ctx, report)
	}
	if s.storage != nil {
		dated := make([]model.Sale, 0, len(sales))
		for _, sale := range sales {
			if sale.Dated() {
				dated = append(dated, sale)
			}
		}
		if storageErr := s.storage.SaveSales(ctx, dated); storageErr != nil && err == nil {
			err = storageErr
		}
	}

	return report, err
}

// LatestReport returns the most recent report. Memory is consulted first,
// then the cache, so a restarted service can answer before its first cycle
// completes. A nil report with nil error means no report exists yet.
func (s *SnapshotReportService) LatestReport(ctx context.Context) (*model.Report, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest != nil {
		reportCopy := *latest
		return &reportCopy, nil
	}

	if s.cache != nil {
		cached, err := s.cache.GetReport(ctx)
		if err != nil {
			log.Printf("Failed to read report from cache, answering without it: %v", err)
		} else if cached != nil {
			s.mu.Lock()
			s.latest = cached
			s.mu.Unlock()
			reportCopy := *cached
			return &reportCopy, nil
		}
	}

	return nil, nil
}

// Ensure interface compliance
var _ useCases.ReportService = (*SnapshotReportService)(nil)
