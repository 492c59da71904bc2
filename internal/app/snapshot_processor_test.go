package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"salestat/internal/app"
	"salestat/internal/app/dto"
	"salestat/internal/domain/model"
	"salestat/internal/domain/service"
)

// MockBroadcaster implements the Broadcaster interface for testing
type MockBroadcaster struct {
	broadcasts []*model.Report
	mu         sync.Mutex
}

func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{
		broadcasts: make([]*model.Report, 0),
	}
}

func (b *MockBroadcaster) BroadcastReport(report *model.Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broadcasts = append(b.broadcasts, report)
}

func (b *MockBroadcaster) GetBroadcasts() []*model.Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.broadcasts
}

func TestSnapshotProcessor(t *testing.T) {
	// Setup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshotCh := make(chan *dto.SnapshotDTO, 4)
	reportService := service.NewSnapshotReportService(nil, nil)
	broadcaster := NewMockBroadcaster()

	processor := app.NewSnapshotProcessor(snapshotCh, reportService, broadcaster)

	// Start processor in background
	go processor.Run(ctx)

	asOf := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	sales := []model.Sale{
		{Title: "Air Jordan 1", SellPrice: 200, BuyPrice: 100, Margin: 100, Date: asOf},
		{Title: "Dunk Low", SellPrice: 100, BuyPrice: 60, Margin: 40, Date: asOf.AddDate(0, 0, -7)},
	}
	snapshotCh <- dto.NewSnapshot("cycle-1", asOf, time.Now(), sales)

	// Wait for processing
	time.Sleep(100 * time.Millisecond)

	latest, err := reportService.LatestReport(ctx)
	if err != nil {
		t.Fatalf("failed to get latest report: %v", err)
	}
	if latest == nil {
		t.Fatal("report not built")
	}
	if latest.AllTime.Count != 2 || latest.AllTime.Revenue != 300 {
		t.Errorf("report totals wrong: %+v", latest.AllTime)
	}

	// Verify broadcast happened
	if got := len(broadcaster.GetBroadcasts()); got != 1 {
		t.Fatalf("expected 1 broadcast, got %d", got)
	}

	// Replayed snapshot must be ignored
	snapshotCh <- dto.NewSnapshot("cycle-1", asOf, time.Now(), sales[:1])
	time.Sleep(100 * time.Millisecond)

	latest, _ = reportService.LatestReport(ctx)
	if latest.AllTime.Count != 2 {
		t.Errorf("replay prevention failed: count is %d", latest.AllTime.Count)
	}
	if got := len(broadcaster.GetBroadcasts()); got != 1 {
		t.Errorf("replay must not broadcast, got %d broadcasts", got)
	}

	// A new cycle replaces the report completely
	snapshotCh <- dto.NewSnapshot("cycle-2", asOf, time.Now(), sales[:1])
	time.Sleep(100 * time.Millisecond)

	latest, _ = reportService.LatestReport(ctx)
	if latest.AllTime.Count != 1 {
		t.Errorf("new snapshot must replace the report: count is %d", latest.AllTime.Count)
	}
}

func TestSnapshotProcessorEmptySnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshotCh := make(chan *dto.SnapshotDTO, 1)
	reportService := service.NewSnapshotReportService(nil, nil)
	broadcaster := NewMockBroadcaster()

	processor := app.NewSnapshotProcessor(snapshotCh, reportService, broadcaster)
	go processor.Run(ctx)

	asOf := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	snapshotCh <- dto.NewSnapshot("cycle-empty", asOf, time.Now(), nil)
	time.Sleep(100 * time.Millisecond)

	latest, _ := reportService.LatestReport(ctx)
	if latest == nil || !latest.Empty {
		t.Fatalf("empty snapshot must yield the designated empty report: %+v", latest)
	}
	if got := len(broadcaster.GetBroadcasts()); got != 1 {
		t.Errorf("empty report is still broadcast, got %d", got)
	}
}
