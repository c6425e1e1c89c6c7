package moderation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

// ErrorCode classifies platform failures so the executor can tell benign
// outcomes (already gone, already applied) from real ones.
type ErrorCode int

const (
	CodeUnknown ErrorCode = iota
	CodeNotFound
	CodeForbidden
	CodeRateLimited
	CodeTimeout
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNotFound:
		return "not_found"
	case CodeForbidden:
		return "forbidden"
	case CodeRateLimited:
		return "rate_limited"
	case CodeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// PlatformError wraps a failed Discord call with its classification.
type PlatformError struct {
	Code ErrorCode
	Op   string
	Err  error
}

func (pe *PlatformError) Error() string {
	return fmt.Sprintf("platform %s failed (%s): %v", pe.Op, pe.Code, pe.Err)
}

func (pe *PlatformError) Unwrap() error {
	return pe.Err
}

// IsNotFound reports whether err is a platform not-found failure.
func IsNotFound(err error) bool {
	var pe *PlatformError
	return errors.As(err, &pe) && pe.Code == CodeNotFound
}

// IsForbidden reports whether err is a platform permission failure.
func IsForbidden(err error) bool {
	var pe *PlatformError
	return errors.As(err, &pe) && pe.Code == CodeForbidden
}

// Platform is the set of Discord actions enforcement needs. The interface
// keeps the executor testable without a gateway connection.
type Platform interface {
	RemoveReaction(ctx context.Context, channelID, messageID snowflake.ID, emojiName string, userID snowflake.ID) error
	ApplyTimeout(ctx context.Context, guildID, userID snowflake.ID, until time.Time) error
	SendDM(ctx context.Context, userID snowflake.ID, content string) error
	SendLog(ctx context.Context, channelID snowflake.ID, embed discord.Embed) error
}

type discordPlatform struct {
	client bot.Client
}

// NewDiscordPlatform wraps a disgo client as a Platform.
func NewDiscordPlatform(client bot.Client) Platform {
	return &discordPlatform{client: client}
}

func (p *discordPlatform) RemoveReaction(ctx context.Context, channelID, messageID snowflake.ID, emojiName string, userID snowflake.ID) error {
	err := p.client.Rest().RemoveUserReaction(channelID, messageID, emojiName, userID, rest.WithCtx(ctx))
	return classify("remove reaction", err)
}

func (p *discordPlatform) ApplyTimeout(ctx context.Context, guildID, userID snowflake.ID, until time.Time) error {
	_, err := p.client.Rest().UpdateMember(guildID, userID, discord.MemberUpdate{
		CommunicationDisabledUntil: json.NewNullablePtr(until),
	}, rest.WithCtx(ctx))
	return classify("apply timeout", err)
}

func (p *discordPlatform) SendDM(ctx context.Context, userID snowflake.ID, content string) error {
	channel, err := p.client.Rest().CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return classify("open dm", err)
	}
	_, err = p.client.Rest().CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
		SetContent(content).
		Build(), rest.WithCtx(ctx))
	return classify("send dm", err)
}

func (p *discordPlatform) SendLog(ctx context.Context, channelID snowflake.ID, embed discord.Embed) error {
	_, err := p.client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build(), rest.WithCtx(ctx))
	return classify("send log", err)
}

// classify maps a raw rest error onto an ErrorCode by HTTP status.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	code := CodeUnknown
	if errors.Is(err, context.DeadlineExceeded) {
		code = CodeTimeout
	}

	var restErr rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			code = CodeNotFound
		case http.StatusForbidden:
			code = CodeForbidden
		case http.StatusTooManyRequests:
			code = CodeRateLimited
		}
	}

	return &PlatformError{Code: code, Op: op, Err: err}
}
