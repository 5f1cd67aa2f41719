package kafka

import (
	"context"
	"encoding/binary"

	"github.com/segmentio/kafka-go"
)

// BatchPublisher mirrors flushed batch frames to a Kafka topic.
type BatchPublisher struct {
	writer *kafka.Writer
}

func NewBatchPublisher(brokers []string, topic string) *BatchPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
		Async:   true,
	})
	return &BatchPublisher{writer: writer}
}

// PublishBatch writes one batch frame keyed by room so consumers see each
// room's batches in order.
func (p *BatchPublisher) PublishBatch(ctx context.Context, roomID uint, frame []byte) error {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(roomID))
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: frame,
	})
}

func (p *BatchPublisher) Close() error {
	return p.writer.Close()
}
