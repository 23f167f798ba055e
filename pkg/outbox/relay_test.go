package outbox_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/shopcanvas/storefront/pkg/outbox"
)

type storeFake struct {
	mu      sync.Mutex
	pending []outbox.Event
	sent    []int64
	failed  map[int64]string
}

func (s *storeFake) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := s.pending
	s.pending = nil
	return batch, nil
}

func (s *storeFake) MarkSent(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, ids...)
	return nil
}

func (s *storeFake) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed == nil {
		s.failed = map[int64]string{}
	}
	s.failed[id] = errMsg
	return nil
}

func (s *storeFake) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	return nil
}

type producerFake struct {
	mu       sync.Mutex
	messages []kafka.Message
	failKeys map[string]bool
}

func (p *producerFake) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		if p.failKeys[string(m.Key)] {
			return errors.New("broker unavailable")
		}
		p.messages = append(p.messages, m)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelayDispatchesPendingEvents(t *testing.T) {
	store := &storeFake{pending: []outbox.Event{
		{ID: 1, AggregateType: "order", AggregateID: "a", Type: "OrderPlaced", Payload: []byte(`{"n":1}`), Traceparent: "00-abc-def-01"},
		{ID: 2, AggregateType: "order", AggregateID: "b", Type: "OrderPlaced", Payload: []byte(`{"n":2}`)},
	}}
	producer := &producerFake{}
	relay := outbox.NewRelay(discardLogger(), store, outbox.NewDispatcher(discardLogger(), producer, "storefront.orders"), "relay-test")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, relay.Run(ctx))

	producer.mu.Lock()
	defer producer.mu.Unlock()
	require.Len(t, producer.messages, 2)
	require.Equal(t, "storefront.orders", producer.messages[0].Topic)
	require.Equal(t, []byte("a"), producer.messages[0].Key)

	var traceparent string
	for _, h := range producer.messages[0].Headers {
		if h.Key == "traceparent" {
			traceparent = string(h.Value)
		}
	}
	require.Equal(t, "00-abc-def-01", traceparent)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.ElementsMatch(t, []int64{1, 2}, store.sent)
}

func TestRelayMarksFailedAndKeepsGoing(t *testing.T) {
	store := &storeFake{pending: []outbox.Event{
		{ID: 1, AggregateID: "bad", Type: "OrderPlaced", Payload: []byte(`{}`)},
		{ID: 2, AggregateID: "good", Type: "OrderPlaced", Payload: []byte(`{}`)},
	}}
	producer := &producerFake{failKeys: map[string]bool{"bad": true}}
	relay := outbox.NewRelay(discardLogger(), store, outbox.NewDispatcher(discardLogger(), producer, "storefront.orders"), "relay-test")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, relay.Run(ctx))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Equal(t, []int64{2}, store.sent)
	require.Contains(t, store.failed, int64(1))
}
