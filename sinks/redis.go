package sinks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	match "github.com/clobcore/matching-engine"
	"github.com/clobcore/matching-engine/fanout"
	"github.com/clobcore/matching-engine/protocol"
)

// bboPublish is one unit of work queued onto the fan-out ring: a symbol
// and the BBO to publish for it, at the time OnBBOUpdate was called.
type bboPublish struct {
	symbol string
	bbo    match.BestBidOffer
}

// RedisBBOSink publishes the top of book to a Redis pub/sub channel per
// symbol, so downstream consumers (a web gateway, a market-data cache) can
// subscribe instead of polling GetBBO. Like KafkaTradeSink, the network
// call runs off a fanout.RingBuffer so OnBBOUpdate never blocks on Redis.
type RedisBBOSink struct {
	client        *redis.Client
	channelPrefix string
	ring          *fanout.RingBuffer[bboPublish]
	ser           protocol.Serializer
}

// RedisBBOSinkConfig configures a RedisBBOSink.
type RedisBBOSinkConfig struct {
	Addr          string
	ChannelPrefix string // e.g. "bbo:"; published to ChannelPrefix+symbol
	RingCapacity  int64  // must be a power of 2; defaults to 1024
}

func NewRedisBBOSink(cfg RedisBBOSinkConfig) *RedisBBOSink {
	capacity := cfg.RingCapacity
	if capacity == 0 {
		capacity = 1024
	}

	s := &RedisBBOSink{
		client:        redis.NewClient(&redis.Options{Addr: cfg.Addr}),
		channelPrefix: cfg.ChannelPrefix,
		ser:           protocol.DefaultJSONSerializer{},
	}
	s.ring = fanout.NewRingBuffer[bboPublish](capacity, fanout.HandlerFunc[bboPublish](s.publish))
	s.ring.Start()
	return s
}

// OnBBOUpdate implements match.BBOSink.
func (s *RedisBBOSink) OnBBOUpdate(symbol string, bbo match.BestBidOffer) {
	s.ring.Publish(bboPublish{symbol: symbol, bbo: bbo})
}

func (s *RedisBBOSink) publish(p bboPublish) {
	payload, err := s.ser.Marshal(protocol.FromBBO(p.symbol, p.bbo))
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	channel := fmt.Sprintf("%s%s", s.channelPrefix, p.symbol)
	_ = s.client.Publish(ctx, channel, payload).Err()
}

// Close drains the fan-out buffer and closes the Redis client.
func (s *RedisBBOSink) Close(ctx context.Context) error {
	if err := s.ring.Shutdown(ctx); err != nil {
		return err
	}
	return s.client.Close()
}
