package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"salestat/internal/app/dto"
	"salestat/internal/domain/model"
	"salestat/internal/domain/service"
	"salestat/internal/infrastructure/queue"
)

// SaleSource yields one complete snapshot of normalized sales per call.
// Successive snapshots are independent; no sale identity carries over
// between cycles.
type SaleSource interface {
	FetchSales(ctx context.Context) ([]model.Sale, error)
}

// Poller drives the refresh cycle: on every tick it fetches a fresh snapshot
// from the source and hands it to the processing pipeline, either through
// Kafka or over the direct channel. A failed fetch only skips the cycle.
type Poller struct {
	Source     SaleSource
	Producer   queue.SnapshotProducer // nil when publishing to the direct channel
	SnapshotCh chan<- *dto.SnapshotDTO
	Interval   time.Duration
}

// NewPoller creates a poller publishing to the direct channel.
func NewPoller(source SaleSource, snapshotCh chan<- *dto.SnapshotDTO, interval time.Duration) *Poller {
	return &Poller{
		Source:     source,
		SnapshotCh: snapshotCh,
		Interval:   interval,
	}
}

// NewKafkaPoller creates a poller publishing snapshots to Kafka.
func NewKafkaPoller(source SaleSource, producer queue.SnapshotProducer, interval time.Duration) *Poller {
	return &Poller{
		Source:   source,
		Producer: producer,
		Interval: interval,
	}
}

// Run fetches immediately, then on every tick until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.cycle(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	sales, err := p.Source.FetchSales(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("Fetch cycle failed, keeping previous report: %v", err)
		}
		return
	}

	now := time.Now()
	snapshot := dto.NewSnapshot(uuid.New().String(), service.Midnight(now), now, sales)

	if p.Producer != nil {
		if err := p.Producer.PublishSnapshot(ctx, snapshot); err != nil && ctx.Err() == nil {
			log.Printf("Failed to publish snapshot %s: %v", snapshot.ID, err)
		}
		return
	}

	select {
	case <-ctx.Done():
	case p.SnapshotCh <- snapshot:
	}
}
