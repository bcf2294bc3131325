package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"census/pkg/domain"
	"census/pkg/platform/circuit"
	"census/pkg/requestcontext"
)

type failingStore struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (s *failingStore) Append(context.Context, Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return errors.New("broker unavailable")
	}
	return nil
}

func TestPublisherEmit(t *testing.T) {
	t.Run("stamps request time and id", func(t *testing.T) {
		now := time.Date(2019, time.December, 1, 10, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(context.Background(), now)
		ctx = requestcontext.WithRequestID(ctx, "req-1")

		p := NewPublisher(4, nil)
		p.Emit(ctx, Event{Action: ActionImportCreated, ImportID: 1})

		event := <-p.Inbox()
		assert.Equal(t, now, event.Timestamp)
		assert.Equal(t, "req-1", event.RequestID)
	})

	t.Run("full buffer drops without blocking", func(t *testing.T) {
		p := NewPublisher(1, nil)
		p.Emit(context.Background(), Event{Action: ActionImportCreated, ImportID: 1})
		p.Emit(context.Background(), Event{Action: ActionImportCreated, ImportID: 2})

		assert.Equal(t, int64(1), p.Dropped())
	})

	t.Run("emit after close drops", func(t *testing.T) {
		p := NewPublisher(1, nil)
		p.Close()
		p.Close()
		p.Emit(context.Background(), Event{Action: ActionImportCreated, ImportID: 1})

		assert.Equal(t, int64(1), p.Dropped())
	})
}

func TestWorkerRun(t *testing.T) {
	t.Run("delivers until inbox closes", func(t *testing.T) {
		store := NewInMemoryStore(16)
		p := NewPublisher(8, nil)
		w := NewWorker(store, p.Inbox(), nil)

		citizen := domain.CitizenID(3)
		p.Emit(context.Background(), Event{Action: ActionImportCreated, ImportID: 1, Citizens: 3})
		p.Emit(context.Background(), Event{Action: ActionCitizenPatched, ImportID: 1, CitizenID: &citizen})
		p.Emit(context.Background(), Event{Action: ActionImportCreated, ImportID: 2, Citizens: 1})
		p.Close()

		require.NoError(t, w.Run(context.Background()))

		assert.Len(t, store.ListAll(), 3)
		events := store.ListByImport(1)
		require.Len(t, events, 2)
		assert.Equal(t, ActionCitizenPatched, events[1].Action)
	})

	t.Run("cancellation drains buffered events", func(t *testing.T) {
		store := NewInMemoryStore(16)
		p := NewPublisher(8, nil)
		p.Emit(context.Background(), Event{Action: ActionImportCreated, ImportID: 1})
		p.Emit(context.Background(), Event{Action: ActionImportCreated, ImportID: 2})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewWorker(store, p.Inbox(), nil).Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
		assert.Len(t, store.ListAll(), 2)
	})

	t.Run("store failure does not stop the worker", func(t *testing.T) {
		sink := &failingStore{fail: true}
		p := NewPublisher(8, nil)
		p.Emit(context.Background(), Event{Action: ActionImportCreated, ImportID: 1})
		p.Emit(context.Background(), Event{Action: ActionImportCreated, ImportID: 2})
		p.Close()

		require.NoError(t, NewWorker(sink, p.Inbox(), nil).Run(context.Background()))
		assert.Equal(t, 2, sink.calls)
	})
}

func TestFallbackStore(t *testing.T) {
	primary := &failingStore{fail: true}
	fallback := NewInMemoryStore(16)
	breaker := circuit.New("audit", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	s := NewFallbackStore(primary, fallback, breaker, nil)
	ctx := context.Background()

	err := s.Append(ctx, Event{ImportID: 1})
	require.Error(t, err, "closed circuit surfaces the primary error")
	assert.Empty(t, fallback.ListAll())

	require.NoError(t, s.Append(ctx, Event{ImportID: 2}), "opening failure diverts to fallback")
	require.NoError(t, s.Append(ctx, Event{ImportID: 3}))
	assert.Len(t, fallback.ListAll(), 2)
	assert.True(t, breaker.IsOpen())

	primary.fail = false
	require.NoError(t, s.Append(ctx, Event{ImportID: 4}))
	assert.False(t, breaker.IsOpen())
	assert.Len(t, fallback.ListAll(), 2)
	assert.Equal(t, 4, primary.calls)
}

func TestInMemoryStoreKeepsNewestWithinCapacity(t *testing.T) {
	store := NewInMemoryStore(3)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		require.NoError(t, store.Append(ctx, Event{ImportID: domain.ImportID(i)}))
	}
	assert.Len(t, store.ListAll(), 2)
	assert.Zero(t, store.Evicted())

	for i := 3; i <= 7; i++ {
		require.NoError(t, store.Append(ctx, Event{ImportID: domain.ImportID(i)}))
	}

	events := store.ListAll()
	require.Len(t, events, 3)
	assert.Equal(t, []domain.ImportID{5, 6, 7},
		[]domain.ImportID{events[0].ImportID, events[1].ImportID, events[2].ImportID})
	assert.Equal(t, int64(4), store.Evicted())
	assert.Empty(t, store.ListByImport(1))
	assert.Len(t, store.ListByImport(7), 1)

	store.Clear()
	assert.Empty(t, store.ListAll())
}

func TestInMemoryStoreDefaultCapacity(t *testing.T) {
	store := NewInMemoryStore(0)
	ctx := context.Background()
	for i := range DefaultMemoryCapacity + 10 {
		require.NoError(t, store.Append(ctx, Event{ImportID: domain.ImportID(i)}))
	}
	assert.Len(t, store.ListAll(), DefaultMemoryCapacity)
	assert.Equal(t, int64(10), store.Evicted())
}
