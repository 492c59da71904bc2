package app_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"salestat/internal/app"
	"salestat/internal/app/dto"
	"salestat/internal/domain/model"
)

// fakeSource implements the SaleSource interface for testing
type fakeSource struct {
	calls atomic.Int32
	fail  bool
}

func (s *fakeSource) FetchSales(ctx context.Context) ([]model.Sale, error) {
	s.calls.Add(1)
	if s.fail {
		return nil, errors.New("source unavailable")
	}
	return []model.Sale{
		{Title: "Samba OG", SellPrice: 110, BuyPrice: 70, Margin: 40,
			Date: time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)},
	}, nil
}

func TestPollerPublishesSnapshots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &fakeSource{}
	snapshotCh := make(chan *dto.SnapshotDTO, 8)
	poller := app.NewPoller(src, snapshotCh, 50*time.Millisecond)

	go poller.Run(ctx)

	// First cycle runs immediately, a second follows after one interval
	var first *dto.SnapshotDTO
	select {
	case first = <-snapshotCh:
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	if first.ID == "" {
		t.Error("snapshot must carry a cycle ID")
	}
	if len(first.Sales) != 1 || first.Sales[0].Title != "Samba OG" {
		t.Errorf("snapshot content wrong: %+v", first.Sales)
	}
	if first.AsOf == "" {
		t.Error("snapshot must carry a reference date")
	}

	select {
	case second := <-snapshotCh:
		if second.ID == first.ID {
			t.Error("each cycle must publish a distinct snapshot")
		}
	case <-time.After(time.Second):
		t.Fatal("no second snapshot published")
	}
}

func TestPollerSkipsFailedCycles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &fakeSource{fail: true}
	snapshotCh := make(chan *dto.SnapshotDTO, 8)
	poller := app.NewPoller(src, snapshotCh, 30*time.Millisecond)

	go poller.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	if src.calls.Load() < 2 {
		t.Errorf("poller must keep retrying across cycles, got %d calls", src.calls.Load())
	}
	select {
	case s := <-snapshotCh:
		t.Errorf("failed cycle must not publish, got %+v", s)
	default:
	}
}

func TestCleanupLeavesSnapshotChannelOpen(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	snapshotCh := make(chan *dto.SnapshotDTO, 1)
	poller := app.NewPoller(&fakeSource{}, snapshotCh, time.Hour)
	a := &app.AppContext{SnapshotCh: snapshotCh}

	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	select {
	case <-snapshotCh:
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	// Shutdown order in main: cancel, then cleanup. A cycle racing the
	// cleanup must not panic on the channel.
	cancel()
	a.Cleanup(context.Background())

	select {
	case snapshotCh <- &dto.SnapshotDTO{ID: "late"}:
	default:
		t.Fatal("channel must still accept a buffered send after cleanup")
	}

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected run error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}
