package moderation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	gate   chan struct{}
}

func (r *recorder) handle(_ context.Context, event Event) {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatcherDeliversEvents(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec.handle, 4)
	defer d.Close()

	if !d.Enqueue(Event{GuildID: 1, MessageID: 10}) {
		t.Fatal("Enqueue() = false, want true")
	}

	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })
}

func TestDispatcherPreservesPerGuildOrder(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec.handle, 8)
	defer d.Close()

	const n = 50
	for i := 0; i < n; i++ {
		if !d.Enqueue(Event{GuildID: 1, MessageID: snowflake.ID(i)}) {
			t.Fatalf("Enqueue() #%d = false", i)
		}
	}

	waitFor(t, func() bool { return len(rec.snapshot()) == n })

	for i, event := range rec.snapshot() {
		if event.MessageID != snowflake.ID(i) {
			t.Fatalf("event %d has MessageID %d, order broken", i, event.MessageID)
		}
	}
}

func TestDispatcherGuildsDoNotBlockEachOther(t *testing.T) {
	rec := &recorder{gate: make(chan struct{})}
	d := NewDispatcher(rec.handle, 4)
	defer d.Close()

	// Guild 1's worker parks on the gate.
	d.Enqueue(Event{GuildID: 1, MessageID: 1})
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		d.Enqueue(Event{GuildID: 2, MessageID: 2})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue for another guild blocked")
	}

	close(rec.gate)
	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	rec := &recorder{gate: make(chan struct{})}
	d := NewDispatcher(rec.handle, 1)

	// One event parks in the handler; the queue then holds guildQueueSize
	// more before dropping starts.
	dropped := 0
	for i := 0; i < guildQueueSize+10; i++ {
		if !d.Enqueue(Event{GuildID: 1, MessageID: snowflake.ID(i)}) {
			dropped++
		}
	}
	if dropped == 0 {
		t.Error("no events dropped with a saturated queue")
	}

	close(rec.gate)
	d.Close()
}

func TestDispatcherCloseDrainsQueue(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec.handle, 2)

	const n = 20
	for i := 0; i < n; i++ {
		d.Enqueue(Event{GuildID: 1, MessageID: snowflake.ID(i)})
	}

	d.Close()

	if got := len(rec.snapshot()); got != n {
		t.Errorf("handled %d events after Close, want %d", got, n)
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(func(context.Context, Event) {}, 2)
	d.Close()

	if d.Enqueue(Event{GuildID: 1}) {
		t.Error("Enqueue() after Close = true, want false")
	}
}
