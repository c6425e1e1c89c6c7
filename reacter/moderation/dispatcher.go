package moderation

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/semaphore"
)

const (
	guildQueueSize     = 64
	workerIdleExit     = 30 * time.Second
	defaultMaxInFlight = 16
)

// Dispatcher fans violations out to per-guild workers. Events for the same
// guild are handled strictly in arrival order; guilds never block each other.
// A weighted semaphore bounds total in-flight handling across all guilds.
type Dispatcher struct {
	handle func(context.Context, Event)
	sem    *semaphore.Weighted

	mu     sync.Mutex
	queues map[snowflake.ID]chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(handle func(context.Context, Event), maxInFlight int64) *Dispatcher {
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxInFlight
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		handle: handle,
		sem:    semaphore.NewWeighted(maxInFlight),
		queues: make(map[snowflake.ID]chan Event),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Enqueue hands an event to the guild's worker, spawning one if needed.
// It never blocks; a full guild queue drops the event.
func (d *Dispatcher) Enqueue(event Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx.Err() != nil {
		return false
	}

	queue, ok := d.queues[event.GuildID]
	if !ok {
		queue = make(chan Event, guildQueueSize)
		d.queues[event.GuildID] = queue
		d.wg.Add(1)
		go d.worker(event.GuildID, queue)
	}

	select {
	case queue <- event:
		return true
	default:
		slog.Warn("Guild queue full, dropping violation",
			slog.String("type", "moderation"),
			slog.String("guild_id", event.GuildID.String()),
		)
		return false
	}
}

func (d *Dispatcher) worker(guildID snowflake.ID, queue chan Event) {
	defer d.wg.Done()

	idle := time.NewTimer(workerIdleExit)
	defer idle.Stop()

	for {
		select {
		case event := <-queue:
			d.process(event)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(workerIdleExit)

		case <-idle.C:
			// Exit only while holding the same lock Enqueue sends under, so
			// no event can slip into a queue nobody reads.
			d.mu.Lock()
			if len(queue) == 0 {
				delete(d.queues, guildID)
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
			idle.Reset(workerIdleExit)

		case <-d.ctx.Done():
			d.drain(queue)
			d.mu.Lock()
			delete(d.queues, guildID)
			d.mu.Unlock()
			return
		}
	}
}

// drain finishes what was already queued before shutdown.
func (d *Dispatcher) drain(queue chan Event) {
	for {
		select {
		case event := <-queue:
			d.process(event)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(event Event) {
	if err := d.sem.Acquire(context.Background(), 1); err != nil {
		return
	}
	defer d.sem.Release(1)

	// The handler owns per-call deadlines, so a cancelled dispatcher context
	// must not poison events drained during shutdown.
	d.handle(context.Background(), event)
}

// Close stops accepting events, lets workers drain their queues and waits
// for them to exit.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}
