package sinks

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	match "github.com/clobcore/matching-engine"
	"github.com/clobcore/matching-engine/fanout"
	"github.com/clobcore/matching-engine/protocol"
)

// KafkaTradeSink publishes every trade to a Kafka topic. OnTrade only
// enqueues onto an in-process fanout.RingBuffer and returns; the actual
// network write happens on the ring buffer's own consumer goroutine, so a
// slow or unreachable broker never blocks the order book's guard.
type KafkaTradeSink struct {
	writer *kafkago.Writer
	ring   *fanout.RingBuffer[match.Trade]
	ser    protocol.Serializer
}

// KafkaTradeSinkConfig configures a KafkaTradeSink.
type KafkaTradeSinkConfig struct {
	Brokers      []string
	Topic        string
	RingCapacity int64 // must be a power of 2; defaults to 1024
}

// NewKafkaTradeSink dials brokers lazily (kafka-go writers connect on
// first Write) and starts the background fan-out consumer.
func NewKafkaTradeSink(cfg KafkaTradeSinkConfig) *KafkaTradeSink {
	capacity := cfg.RingCapacity
	if capacity == 0 {
		capacity = 1024
	}

	s := &KafkaTradeSink{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
		ser: protocol.DefaultJSONSerializer{},
	}
	s.ring = fanout.NewRingBuffer[match.Trade](capacity, fanout.HandlerFunc[match.Trade](s.publish))
	s.ring.Start()
	return s
}

// OnTrade implements match.TradeSink.
func (s *KafkaTradeSink) OnTrade(t match.Trade) {
	s.ring.Publish(t)
}

func (s *KafkaTradeSink) publish(t match.Trade) {
	payload, err := s.ser.Marshal(protocol.FromTrade(t))
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := uuid.NewSHA1(uuid.NameSpaceOID, []byte(t.Symbol)).String()
	_ = s.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Unix(0, t.Timestamp),
	})
}

// Close drains the fan-out buffer and closes the underlying Kafka writer.
func (s *KafkaTradeSink) Close(ctx context.Context) error {
	if err := s.ring.Shutdown(ctx); err != nil {
		return err
	}
	return s.writer.Close()
}
