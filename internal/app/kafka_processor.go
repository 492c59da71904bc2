package app

import (
	"context"
	"log"

	"salestat/internal/app/dto"
	"salestat/internal/domain/useCases"
	"salestat/internal/infrastructure/queue"
)

// KafkaSnapshotProcessor consumes snapshots from Kafka instead of the direct
// channel, otherwise behaving exactly like SnapshotProcessor.
type KafkaSnapshotProcessor struct {
	Consumer      queue.SnapshotConsumer
	ReportService useCases.ReportService
	Broadcaster   ReportBroadcaster
	SeenSnapshots map[string]struct{}
}

func NewKafkaSnapshotProcessor(consumer queue.SnapshotConsumer, reportService useCases.ReportService, broadcaster ReportBroadcaster) *KafkaSnapshotProcessor {
	return &KafkaSnapshotProcessor{
		Consumer:      consumer,
		ReportService: reportService,
		Broadcaster:   broadcaster,
		SeenSnapshots: make(map[string]struct{}),
	}
}

// Run subscribes to the snapshot topic and processes until cancellation.
func (p *KafkaSnapshotProcessor) Run(ctx context.Context) error {
	snapshotCh, err := p.Consumer.Subscribe(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot := <-snapshotCh:
			if snapshot == nil {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.processSnapshot(ctx, snapshot)
		}
	}
}

func (p *KafkaSnapshotProcessor) processSnapshot(ctx context.Context, snapshot *dto.SnapshotDTO) {
	if markSeen(p.SeenSnapshots, snapshot.ID) {
		return
	}

	if ctx.Err() != nil {
		return
	}

	report, err := p.ReportService.ProcessSnapshot(ctx, snapshot.SalesModels(), snapshot.AsOfDate())
	if err != nil {
		log.Printf("Failed to process snapshot %s: %v", snapshot.ID, err)
		return
	}

	if ctx.Err() != nil {
		return
	}

	p.Broadcaster.BroadcastReport(report)
}
