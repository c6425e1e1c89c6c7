package moderation

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/vohk/reacter/reacter/config"
	"github.com/vohk/reacter/reacter/database/models"
)

// StepStatus is the result of one enforcement step.
type StepStatus int

const (
	StepSkipped StepStatus = iota
	StepDone
	StepFailed
)

func (s StepStatus) String() string {
	switch s {
	case StepDone:
		return "done"
	case StepFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Outcome records what actually happened to a violation. Steps are
// independent; one failing never short-circuits the others.
type Outcome struct {
	Removal StepStatus
	Timeout StepStatus
	DM      StepStatus
	Logged  bool
}

// GuildName resolves a guild's display name for DM wording. Returning ""
// falls back to a generic phrase.
type GuildName func(event Event) string

// Executor runs the enforcement pipeline for one violation: remove the
// reaction, time the member out, optionally DM them, then write the audit
// line.
type Executor struct {
	platform    Platform
	cooldowns   *CooldownGate
	guildName   GuildName
	callTimeout time.Duration
}

func NewExecutor(platform Platform, cooldowns *CooldownGate, guildName GuildName) *Executor {
	return &Executor{
		platform:    platform,
		cooldowns:   cooldowns,
		guildName:   guildName,
		callTimeout: config.PlatformCallTimeout,
	}
}

// HandleViolation enforces one violation under the guild's settings.
func (e *Executor) HandleViolation(ctx context.Context, event Event, cfg *models.GuildConfig) Outcome {
	var out Outcome

	out.Removal = e.removeReaction(ctx, event)
	out.Timeout = e.applyTimeout(ctx, event, cfg)

	if cfg.DMOnTimeout && out.Timeout == StepDone {
		out.DM = e.sendDM(ctx, event, cfg)
	}

	if cfg.LogChannelID != nil {
		out.Logged = e.sendAuditLog(ctx, event, cfg, out)
	}

	slog.Info("Violation handled",
		slog.String("type", "moderation"),
		slog.String("guild_id", event.GuildID.String()),
		slog.String("user_id", event.UserID.String()),
		slog.String("emoji", event.Emoji.String()),
		slog.String("removal", out.Removal.String()),
		slog.String("timeout", out.Timeout.String()),
		slog.String("dm", out.DM.String()),
	)
	return out
}

func (e *Executor) removeReaction(ctx context.Context, event Event) StepStatus {
	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	err := e.platform.RemoveReaction(ctx, event.ChannelID, event.MessageID, event.Emoji.APIName(), event.UserID)
	if err == nil {
		return StepDone
	}
	// The reaction or message being gone already is the state we wanted.
	if IsNotFound(err) {
		return StepDone
	}

	slog.Error("Failed to remove reaction",
		slog.String("type", "moderation"),
		slog.String("guild_id", event.GuildID.String()),
		slog.String("channel_id", event.ChannelID.String()),
		slog.Any("error", err),
	)
	return StepFailed
}

func (e *Executor) applyTimeout(ctx context.Context, event Event, cfg *models.GuildConfig) StepStatus {
	if cfg.TimeoutSeconds <= 0 {
		return StepSkipped
	}
	if !e.cooldowns.Allow(event.GuildID, event.UserID) {
		slog.Debug("Timeout skipped, cooldown active",
			slog.String("type", "moderation"),
			slog.String("guild_id", event.GuildID.String()),
			slog.String("user_id", event.UserID.String()),
		)
		return StepSkipped
	}

	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	err := e.platform.ApplyTimeout(ctx, event.GuildID, event.UserID, time.Now().Add(effectiveTimeout(cfg)))
	if err != nil {
		// The member having left already is a terminal state, not a failure.
		if IsNotFound(err) {
			e.cooldowns.Record(event.GuildID, event.UserID)
			return StepDone
		}
		slog.Error("Failed to apply timeout",
			slog.String("type", "moderation"),
			slog.String("guild_id", event.GuildID.String()),
			slog.String("user_id", event.UserID.String()),
			slog.Any("error", err),
		)
		return StepFailed
	}

	// Start the window only once the timeout landed so a failed attempt can
	// retry on the next violation.
	e.cooldowns.Record(event.GuildID, event.UserID)
	return StepDone
}

func (e *Executor) sendDM(ctx context.Context, event Event, cfg *models.GuildConfig) StepStatus {
	name := ""
	if e.guildName != nil {
		name = e.guildName(event)
	}
	where := "this server"
	if name != "" {
		where = fmt.Sprintf("**%s**", name)
	}

	content := fmt.Sprintf("You have been timed out in %s for %d seconds for using the blacklisted reaction: %s",
		where, int(effectiveTimeout(cfg).Seconds()), event.Emoji.Display())

	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	if err := e.platform.SendDM(ctx, event.UserID, content); err != nil {
		// Closed DMs are routine, not an incident.
		if IsForbidden(err) {
			slog.Debug("Cannot DM user",
				slog.String("type", "moderation"),
				slog.String("user_id", event.UserID.String()),
			)
		} else {
			slog.Error("Failed to DM user",
				slog.String("type", "moderation"),
				slog.String("user_id", event.UserID.String()),
				slog.Any("error", err),
			)
		}
		return StepFailed
	}
	return StepDone
}

func (e *Executor) sendAuditLog(ctx context.Context, event Event, cfg *models.GuildConfig, out Outcome) bool {
	embed := discord.NewEmbedBuilder().
		SetTitle("⚠️ Blacklisted Reaction").
		SetColor(0xED4245).
		AddField("User", fmt.Sprintf("<@%s>", event.UserID), true).
		AddField("Reaction", event.Emoji.Display(), true).
		AddField("Channel", fmt.Sprintf("<#%s>", event.ChannelID), true).
		AddField("Removed", out.Removal.String(), true).
		AddField("Timeout", timeoutFieldValue(out.Timeout, cfg), true).
		SetTimestamp(time.Now()).
		Build()

	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	if err := e.platform.SendLog(ctx, *cfg.LogChannelID, embed); err != nil {
		slog.Warn("Failed to send audit log",
			slog.String("type", "moderation"),
			slog.String("guild_id", event.GuildID.String()),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

func timeoutFieldValue(status StepStatus, cfg *models.GuildConfig) string {
	if status == StepDone {
		return fmt.Sprintf("%d seconds", int(effectiveTimeout(cfg).Seconds()))
	}
	return status.String()
}

// effectiveTimeout is the configured duration clamped to the platform's
// 28-day ceiling. Reported durations always match what was applied.
func effectiveTimeout(cfg *models.GuildConfig) time.Duration {
	d := cfg.TimeoutDuration()
	if d > config.MaxTimeoutDuration {
		d = config.MaxTimeoutDuration
	}
	return d
}
