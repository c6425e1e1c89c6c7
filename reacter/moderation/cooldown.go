package moderation

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const cooldownPruneThreshold = 256

type cooldownKey struct {
	guildID snowflake.ID
	userID  snowflake.ID
}

// CooldownGate rate-limits timeouts per guild member so event redelivery or
// reaction spam cannot stack punishments. Entries are pruned opportunistically
// once the map grows past a threshold, so memory stays bounded without a
// background sweeper.
type CooldownGate struct {
	mu     sync.Mutex
	window time.Duration
	last   map[cooldownKey]time.Time
}

func NewCooldownGate(window time.Duration) *CooldownGate {
	return &CooldownGate{
		window: window,
		last:   make(map[cooldownKey]time.Time),
	}
}

// Allow reports whether the member is outside their cooldown window. It does
// not start a new window; call Record once the timeout actually lands.
func (g *CooldownGate) Allow(guildID, userID snowflake.ID) bool {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.pruneLocked(now)

	last, ok := g.last[cooldownKey{guildID, userID}]
	return !ok || now.Sub(last) >= g.window
}

// Record starts the member's cooldown window.
func (g *CooldownGate) Record(guildID, userID snowflake.ID) {
	g.mu.Lock()
	g.last[cooldownKey{guildID, userID}] = time.Now()
	g.mu.Unlock()
}

func (g *CooldownGate) pruneLocked(now time.Time) {
	if len(g.last) < cooldownPruneThreshold {
		return
	}
	for key, last := range g.last {
		if now.Sub(last) >= g.window {
			delete(g.last, key)
		}
	}
}
