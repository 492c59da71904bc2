package app

import (
	"context"
	"errors"
	"log"

	"salestat/internal/app/dto"
	"salestat/internal/domain/model"
	"salestat/internal/domain/useCases"
)

// ErrContextCancelled is returned when the context is cancelled during processing
var ErrContextCancelled = errors.New("context cancelled during processing")

// seenSnapshotsCap bounds the dedup set over the process lifetime. Once full
// the set is reset; reprocessing a long-gone snapshot only rebuilds the report
// it already produced.
// TODO: back the dedup set with Redis when running multiple processor instances
const seenSnapshotsCap = 1024

// markSeen records a snapshot ID, resetting the set when it is full, and
// reports whether the ID was already present.
func markSeen(seen map[string]struct{}, id string) bool {
	if _, exists := seen[id]; exists {
		return true
	}
	if len(seen) >= seenSnapshotsCap {
		clear(seen)
	}
	seen[id] = struct{}{}
	return false
}

// ReportBroadcaster is the slice of the broadcaster the processors need.
type ReportBroadcaster interface {
	BroadcastReport(report *model.Report)
}

// SnapshotProcessor consumes snapshots from a channel, rebuilds the report
// and broadcasts it to connected dashboard clients.
type SnapshotProcessor struct {
	SnapshotCh    chan *dto.SnapshotDTO
	ReportService useCases.ReportService
	Broadcaster   ReportBroadcaster
	SeenSnapshots map[string]struct{} // simple in-memory deduplication by snapshot ID
}

func NewSnapshotProcessor(snapshotCh chan *dto.SnapshotDTO, reportService useCases.ReportService, broadcaster ReportBroadcaster) *SnapshotProcessor {
	return &SnapshotProcessor{
		SnapshotCh:    snapshotCh,
		ReportService: reportService,
		Broadcaster:   broadcaster,
		SeenSnapshots: make(map[string]struct{}),
	}
}

func (p *SnapshotProcessor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot := <-p.SnapshotCh:
			if err := p.processSnapshot(ctx, snapshot); err != nil {
				if errors.Is(err, ErrContextCancelled) {
					log.Println("Context cancelled, stopping snapshot processor")
					return ctx.Err()
				}
				// Other errors are just logged but processing continues
				log.Printf("Error processing snapshot: %v", err)
			}
		}
	}
}

// processSnapshot handles a single snapshot with proper context cancellation checks
func (p *SnapshotProcessor) processSnapshot(ctx context.Context, snapshot *dto.SnapshotDTO) error {
	if ctx.Err() != nil {
		return ErrContextCancelled
	}

	if snapshot == nil {
		return nil
	}

	// A replayed snapshot would rebuild the identical report; skip it
	if markSeen(p.SeenSnapshots, snapshot.ID) {
		return nil
	}

	sales := snapshot.SalesModels()
	asOf := snapshot.AsOfDate()

	if ctx.Err() != nil {
		return ErrContextCancelled
	}

	report, err := p.ReportService.ProcessSnapshot(ctx, sales, asOf)
	if err != nil {
		return err
	}

	if ctx.Err() != nil {
		return ErrContextCancelled
	}

	p.Broadcaster.BroadcastReport(report)

	return nil
}
