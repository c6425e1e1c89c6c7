package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vohk/reacter/reacter/database/models"
	"github.com/vohk/reacter/reacter/emoji"
)

type fakePlatform struct {
	removeErr  error
	timeoutErr error
	dmErr      error
	logErr     error

	removals []snowflake.ID
	timeouts []time.Time
	dms      []string
	logs     []discord.Embed
}

func (p *fakePlatform) RemoveReaction(_ context.Context, _, messageID snowflake.ID, _ string, _ snowflake.ID) error {
	p.removals = append(p.removals, messageID)
	return p.removeErr
}

func (p *fakePlatform) ApplyTimeout(_ context.Context, _, _ snowflake.ID, until time.Time) error {
	if p.timeoutErr != nil {
		return p.timeoutErr
	}
	p.timeouts = append(p.timeouts, until)
	return nil
}

func (p *fakePlatform) SendDM(_ context.Context, _ snowflake.ID, content string) error {
	if p.dmErr != nil {
		return p.dmErr
	}
	p.dms = append(p.dms, content)
	return nil
}

func (p *fakePlatform) SendLog(_ context.Context, _ snowflake.ID, embed discord.Embed) error {
	if p.logErr != nil {
		return p.logErr
	}
	p.logs = append(p.logs, embed)
	return nil
}

func testEvent() Event {
	return Event{
		GuildID:    100,
		ChannelID:  200,
		MessageID:  300,
		UserID:     400,
		Emoji:      emoji.Key{Type: emoji.TypeUnicode, Value: "😀"},
		ReceivedAt: time.Now(),
	}
}

func testConfig() *models.GuildConfig {
	logChannel := snowflake.ID(500)
	return &models.GuildConfig{
		GuildID:        100,
		LogChannelID:   &logChannel,
		TimeoutSeconds: 300,
		DMOnTimeout:    true,
	}
}

func newTestExecutor(p Platform) *Executor {
	return NewExecutor(p, NewCooldownGate(time.Minute), func(Event) string { return "Test Guild" })
}

func TestHandleViolationFullPipeline(t *testing.T) {
	platform := &fakePlatform{}
	e := newTestExecutor(platform)

	out := e.HandleViolation(context.Background(), testEvent(), testConfig())

	if out.Removal != StepDone {
		t.Errorf("Removal = %v, want done", out.Removal)
	}
	if out.Timeout != StepDone {
		t.Errorf("Timeout = %v, want done", out.Timeout)
	}
	if out.DM != StepDone {
		t.Errorf("DM = %v, want done", out.DM)
	}
	if !out.Logged {
		t.Error("Logged = false, want true")
	}

	if len(platform.dms) != 1 {
		t.Fatalf("sent %d DMs, want 1", len(platform.dms))
	}
	if !strings.Contains(platform.dms[0], "Test Guild") || !strings.Contains(platform.dms[0], "300 seconds") {
		t.Errorf("DM content %q missing guild name or duration", platform.dms[0])
	}
}

func TestHandleViolationRemovalFailureDoesNotStopTimeout(t *testing.T) {
	platform := &fakePlatform{
		removeErr: &PlatformError{Code: CodeForbidden, Op: "remove reaction", Err: errors.New("403")},
	}
	e := newTestExecutor(platform)

	out := e.HandleViolation(context.Background(), testEvent(), testConfig())

	if out.Removal != StepFailed {
		t.Errorf("Removal = %v, want failed", out.Removal)
	}
	if out.Timeout != StepDone {
		t.Errorf("Timeout = %v, want done despite removal failure", out.Timeout)
	}
}

func TestHandleViolationNotFoundRemovalIsBenign(t *testing.T) {
	platform := &fakePlatform{
		removeErr: &PlatformError{Code: CodeNotFound, Op: "remove reaction", Err: errors.New("404")},
	}
	e := newTestExecutor(platform)

	out := e.HandleViolation(context.Background(), testEvent(), testConfig())

	if out.Removal != StepDone {
		t.Errorf("Removal = %v, want done for already-gone reaction", out.Removal)
	}
}

func TestHandleViolationTimeoutFailureSkipsDM(t *testing.T) {
	platform := &fakePlatform{
		timeoutErr: &PlatformError{Code: CodeForbidden, Op: "apply timeout", Err: errors.New("403")},
	}
	e := newTestExecutor(platform)

	out := e.HandleViolation(context.Background(), testEvent(), testConfig())

	if out.Timeout != StepFailed {
		t.Errorf("Timeout = %v, want failed", out.Timeout)
	}
	if out.DM != StepSkipped {
		t.Errorf("DM = %v, want skipped when no timeout landed", out.DM)
	}
	if !out.Logged {
		t.Error("audit log should still be written")
	}
}

func TestHandleViolationZeroDurationSkipsTimeout(t *testing.T) {
	platform := &fakePlatform{}
	e := newTestExecutor(platform)

	cfg := testConfig()
	cfg.TimeoutSeconds = 0
	out := e.HandleViolation(context.Background(), testEvent(), cfg)

	if out.Timeout != StepSkipped {
		t.Errorf("Timeout = %v, want skipped for zero duration", out.Timeout)
	}
	if len(platform.timeouts) != 0 {
		t.Errorf("ApplyTimeout called %d times, want 0", len(platform.timeouts))
	}
	if out.DM != StepSkipped {
		t.Errorf("DM = %v, want skipped", out.DM)
	}
}

func TestHandleViolationCooldownPreventsSecondTimeoutAndDM(t *testing.T) {
	platform := &fakePlatform{}
	e := newTestExecutor(platform)
	event := testEvent()
	cfg := testConfig()

	first := e.HandleViolation(context.Background(), event, cfg)
	second := e.HandleViolation(context.Background(), event, cfg)

	if first.Timeout != StepDone {
		t.Fatalf("first Timeout = %v, want done", first.Timeout)
	}
	if second.Timeout != StepSkipped {
		t.Errorf("second Timeout = %v, want skipped by cooldown", second.Timeout)
	}
	if len(platform.dms) != 1 {
		t.Errorf("sent %d DMs, want exactly 1 across redelivery", len(platform.dms))
	}
}

func TestHandleViolationFailedTimeoutDoesNotStartCooldown(t *testing.T) {
	platform := &fakePlatform{
		timeoutErr: &PlatformError{Code: CodeRateLimited, Op: "apply timeout", Err: errors.New("429")},
	}
	e := newTestExecutor(platform)
	event := testEvent()
	cfg := testConfig()

	if out := e.HandleViolation(context.Background(), event, cfg); out.Timeout != StepFailed {
		t.Fatalf("first Timeout = %v, want failed", out.Timeout)
	}

	platform.timeoutErr = nil
	if out := e.HandleViolation(context.Background(), event, cfg); out.Timeout != StepDone {
		t.Errorf("retry Timeout = %v, want done once the platform recovers", out.Timeout)
	}
}

func TestHandleViolationDMDisabled(t *testing.T) {
	platform := &fakePlatform{}
	e := newTestExecutor(platform)

	cfg := testConfig()
	cfg.DMOnTimeout = false
	out := e.HandleViolation(context.Background(), testEvent(), cfg)

	if out.DM != StepSkipped {
		t.Errorf("DM = %v, want skipped when disabled", out.DM)
	}
	if len(platform.dms) != 0 {
		t.Errorf("sent %d DMs, want 0", len(platform.dms))
	}
}

func TestHandleViolationNoLogChannel(t *testing.T) {
	platform := &fakePlatform{}
	e := newTestExecutor(platform)

	cfg := testConfig()
	cfg.LogChannelID = nil
	out := e.HandleViolation(context.Background(), testEvent(), cfg)

	if out.Logged {
		t.Error("Logged = true without a log channel")
	}
	if len(platform.logs) != 0 {
		t.Errorf("sent %d log messages, want 0", len(platform.logs))
	}
}

func TestHandleViolationCapsTimeoutDuration(t *testing.T) {
	platform := &fakePlatform{}
	e := newTestExecutor(platform)

	cfg := testConfig()
	cfg.TimeoutSeconds = 60 * 24 * 60 * 60 // 60 days, past the platform cap

	before := time.Now()
	e.HandleViolation(context.Background(), testEvent(), cfg)

	if len(platform.timeouts) != 1 {
		t.Fatalf("ApplyTimeout called %d times, want 1", len(platform.timeouts))
	}
	maxUntil := before.Add(28*24*time.Hour + time.Minute)
	if platform.timeouts[0].After(maxUntil) {
		t.Errorf("timeout until %v exceeds the 28 day cap", platform.timeouts[0])
	}

	// The reported duration is the capped one, not the configured one.
	capped := "2419200 seconds"
	if len(platform.dms) != 1 || !strings.Contains(platform.dms[0], capped) {
		t.Errorf("DM %q should report the capped duration %s", platform.dms, capped)
	}
	if len(platform.logs) != 1 {
		t.Fatalf("sent %d log messages, want 1", len(platform.logs))
	}
	found := false
	for _, field := range platform.logs[0].Fields {
		if field.Name == "Timeout" && field.Value == capped {
			found = true
		}
	}
	if !found {
		t.Errorf("audit log fields %+v should report the capped duration %s", platform.logs[0].Fields, capped)
	}
}

func TestHandleViolationMemberGoneTimeoutIsBenign(t *testing.T) {
	platform := &fakePlatform{
		timeoutErr: &PlatformError{Code: CodeNotFound, Op: "apply timeout", Err: errors.New("404")},
	}
	e := newTestExecutor(platform)

	out := e.HandleViolation(context.Background(), testEvent(), testConfig())

	if out.Timeout != StepDone {
		t.Errorf("Timeout = %v, want done for a member who already left", out.Timeout)
	}
}
