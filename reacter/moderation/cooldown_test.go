package moderation

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func TestCooldownGateAllowsFirstUse(t *testing.T) {
	g := NewCooldownGate(time.Minute)

	if !g.Allow(1, 2) {
		t.Error("first Allow() = false, want true")
	}
}

func TestCooldownGateBlocksInsideWindow(t *testing.T) {
	g := NewCooldownGate(time.Minute)

	g.Record(1, 2)
	if g.Allow(1, 2) {
		t.Error("Allow() inside window = true, want false")
	}
}

func TestCooldownGateIsPerMember(t *testing.T) {
	g := NewCooldownGate(time.Minute)

	g.Record(1, 2)

	if !g.Allow(1, 3) {
		t.Error("different user should not share the cooldown")
	}
	if !g.Allow(9, 2) {
		t.Error("same user in a different guild should not share the cooldown")
	}
}

func TestCooldownGateExpires(t *testing.T) {
	g := NewCooldownGate(10 * time.Millisecond)

	g.Record(1, 2)
	time.Sleep(20 * time.Millisecond)

	if !g.Allow(1, 2) {
		t.Error("Allow() after window elapsed = false, want true")
	}
}

func TestCooldownGateAllowWithoutRecordDoesNotBlock(t *testing.T) {
	g := NewCooldownGate(time.Minute)

	for i := 0; i < 3; i++ {
		if !g.Allow(1, 2) {
			t.Fatalf("Allow() #%d = false, want true without Record", i)
		}
	}
}

func TestCooldownGatePrunesExpired(t *testing.T) {
	g := NewCooldownGate(time.Millisecond)

	for i := 0; i < cooldownPruneThreshold+10; i++ {
		g.Record(1, snowflake.ID(i))
	}
	time.Sleep(5 * time.Millisecond)

	// Any access past the threshold sweeps the expired entries.
	g.Allow(1, 99999)

	g.mu.Lock()
	size := len(g.last)
	g.mu.Unlock()
	if size != 0 {
		t.Errorf("map still holds %d expired entries, want 0", size)
	}
}
