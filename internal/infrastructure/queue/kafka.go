package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"salestat/internal/app/dto"
)

// KafkaConfig holds Kafka connection configuration
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// SnapshotProducer defines interface for publishing sales snapshots
type SnapshotProducer interface {
	PublishSnapshot(ctx context.Context, snapshot *dto.SnapshotDTO) error
	Close() error
}

// SnapshotConsumer defines interface for consuming sales snapshots
type SnapshotConsumer interface {
	Subscribe(ctx context.Context) (<-chan *dto.SnapshotDTO, error)
	Close() error
}

// KafkaProducer implements SnapshotProducer using Kafka
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a new Kafka producer
func NewKafkaProducer(config KafkaConfig) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaProducer{writer: writer}
}

// PublishSnapshot sends one refresh cycle's snapshot to Kafka. The snapshot
// ID keys the message so replays stay identifiable downstream.
func (p *KafkaProducer) PublishSnapshot(ctx context.Context, snapshot *dto.SnapshotDTO) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(snapshot.ID),
		Value: data,
		Time:  time.Now(),
	})
}

// Close closes the producer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// KafkaConsumer implements SnapshotConsumer using Kafka
type KafkaConsumer struct {
	reader *kafka.Reader
}

// NewKafkaConsumer creates a new Kafka consumer
func NewKafkaConsumer(config KafkaConfig) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB; a snapshot carries an entire fetch cycle
		StartOffset: kafka.LastOffset,
	})

	return &KafkaConsumer{reader: reader}
}

// Subscribe returns a channel of snapshots from Kafka. Snapshots arrive at
// the poll interval, so each message is committed individually right after it
// is handed to the channel.
func (c *KafkaConsumer) Subscribe(ctx context.Context) (<-chan *dto.SnapshotDTO, error) {
	snapshotCh := make(chan *dto.SnapshotDTO, 4)

	go func() {
		defer close(snapshotCh)

		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("Error fetching message: %v", err)
				}
				return
			}

			var snapshot dto.SnapshotDTO
			if err := json.Unmarshal(msg.Value, &snapshot); err != nil {
				log.Printf("Error unmarshalling snapshot: %v", err)
				// Commit bad messages to avoid getting stuck
				_ = c.reader.CommitMessages(ctx, msg)
				continue
			}

			select {
			case <-ctx.Done():
				return
			case snapshotCh <- &snapshot:
				if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
					log.Printf("Error committing snapshot %s: %v", snapshot.ID, err)
				}
			}
		}
	}()

	return snapshotCh, nil
}

// Close closes the consumer
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
