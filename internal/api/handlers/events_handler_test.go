package handlers_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dcastano/turnero/internal/api/handlers"
	"github.com/dcastano/turnero/internal/domain/entities"
)

// fakeEventBus fans published events out to in-memory subscribers
type fakeEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.ReservationEvent
}

func newFakeEventBus() *fakeEventBus {
	return &fakeEventBus{
		subscribers: make(map[string][]chan *entities.ReservationEvent),
	}
}

func (b *fakeEventBus) Publish(ctx context.Context, channel string, event *entities.ReservationEvent) error {
	b.mu.Lock()
	channels := append([]chan *entities.ReservationEvent(nil), b.subscribers[channel]...)
	b.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (b *fakeEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ReservationEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.ReservationEvent, 10)
	b.subscribers[channel] = append(b.subscribers[channel], ch)
	return ch, nil
}

func (b *fakeEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, channels := range b.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	b.subscribers = make(map[string][]chan *entities.ReservationEvent)
	return nil
}

func (b *fakeEventBus) waitForSubscriber(t *testing.T, channel string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.Lock()
		subscribed := len(b.subscribers[channel]) > 0
		b.mu.Unlock()
		if subscribed {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("handler never subscribed to the event channel")
}

func streamEvent(reservationID, stationID string, eventType entities.ReservationEventType) *entities.ReservationEvent {
	return &entities.ReservationEvent{
		ID:            "evt-" + reservationID,
		ReservationID: reservationID,
		StationID:     stationID,
		EventType:     eventType,
		Date:          "2026-03-02",
		Timestamp:     time.Now().UTC(),
	}
}

// streamFixture runs the handler on its own goroutine and collects the body
// only after the client disconnects, so nothing races the response writer.
type streamFixture struct {
	bus    *fakeEventBus
	rec    *httptest.ResponseRecorder
	cancel context.CancelFunc
	done   chan struct{}
}

func startStream(t *testing.T, target string) *streamFixture {
	t.Helper()
	bus := newFakeEventBus()
	handler := handlers.NewEventsHandler(bus)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", target, nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	f := &streamFixture{bus: bus, rec: rec, cancel: cancel, done: make(chan struct{})}
	go func() {
		handler.StreamReservationUpdates(rec, req)
		close(f.done)
	}()

	bus.waitForSubscriber(t, "reservations:events")
	return f
}

func (f *streamFixture) finish(t *testing.T) string {
	t.Helper()
	f.cancel()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit after disconnect")
	}
	return f.rec.Body.String()
}

func TestEventsHandler_StreamReservationUpdates(t *testing.T) {
	t.Run("establishes the stream with a connected event", func(t *testing.T) {
		f := startStream(t, "/api/stream/reservations")
		body := f.finish(t)

		assert.Equal(t, "text/event-stream", f.rec.Header().Get("Content-Type"))
		assert.Equal(t, "no-cache", f.rec.Header().Get("Cache-Control"))
		assert.Contains(t, body, "event: connected")
	})

	t.Run("forwards reservation events to the client", func(t *testing.T) {
		f := startStream(t, "/api/stream/reservations")

		_ = f.bus.Publish(context.Background(), "reservations:events",
			streamEvent("res-1", "st-1", entities.ReservationEventTypeBooked))
		time.Sleep(100 * time.Millisecond)

		body := f.finish(t)
		assert.Contains(t, body, "event: booked")
		assert.Contains(t, body, `"reservation_id":"res-1"`)
	})

	t.Run("station filter drops other stations' events", func(t *testing.T) {
		f := startStream(t, "/api/stream/reservations?station_id=st-1")

		_ = f.bus.Publish(context.Background(), "reservations:events",
			streamEvent("res-other", "st-2", entities.ReservationEventTypeBooked))
		_ = f.bus.Publish(context.Background(), "reservations:events",
			streamEvent("res-mine", "st-1", entities.ReservationEventTypeCancelled))
		time.Sleep(100 * time.Millisecond)

		body := f.finish(t)
		assert.Contains(t, body, "event: cancelled")
		assert.Contains(t, body, `"reservation_id":"res-mine"`)
		assert.NotContains(t, body, "res-other")
	})
}
