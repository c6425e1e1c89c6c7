package logger

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand    LogType = "CMD"
	TypeDB         LogType = "DB"
	TypeSystem     LogType = "SYS"
	TypeModeration LogType = "MOD"
	TypeError      LogType = "ERR"
)

// CustomHandler renders compact colored console lines and drops the noisy
// per-frame gateway chatter disgo emits at debug level.
type CustomHandler struct {
	opts      *slog.HandlerOptions
	startTime time.Time
	attrs     []slog.Attr
	groups    []string
}

func NewHandler(level slog.Level) *CustomHandler {
	return &CustomHandler{
		opts:      &slog.HandlerOptions{Level: level},
		startTime: time.Now(),
		attrs:     make([]slog.Attr, 0),
		groups:    make([]string, 0),
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CustomHandler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     append(h.attrs, attrs...),
		groups:    h.groups,
	}
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	return &CustomHandler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     h.attrs,
		groups:    append(h.groups, name),
	}
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	timestamp := time.Now().Format("15:04:05")

	var levelColor, levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelColor = colorPurple
		levelText = "DEBUG"
	case slog.LevelInfo:
		levelColor = colorGreen
		levelText = "INFO"
	case slog.LevelWarn:
		levelColor = colorYellow
		levelText = "WARN"
	case slog.LevelError:
		levelColor = colorRed
		levelText = "ERROR"
	}

	meta := collectMeta(&r)

	message := r.Message
	if r.Level == slog.LevelError {
		location := meta.errorLocation
		if location == "" {
			if file, line := sourceLocation(); file != "" {
				location = fmt.Sprintf("%s:%d", file, line)
			}
		}
		if location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if meta.errorDetails != "" {
			message = fmt.Sprintf("%s: %s", message, meta.errorDetails)
		}
	}

	if meta.guildID != "" {
		message = fmt.Sprintf("%s [guild %s]", message, meta.guildID)
	}
	if meta.status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, meta.status)
	}

	var attrsStr strings.Builder
	record := func(a slog.Attr) {
		if !isInternalAttr(a.Key) {
			fmt.Fprintf(&attrsStr, " %s=%v", a.Key, a.Value)
		}
	}
	for _, attr := range h.attrs {
		record(attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		record(a)
		return true
	})

	fmt.Printf("%s[Reacter] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		timestamp,
		levelColor,
		levelText,
		colorWhite,
		meta.logType,
		message,
		attrsStr.String(),
		colorReset,
	)

	return nil
}

type recordMeta struct {
	logType       LogType
	status        string
	guildID       string
	errorDetails  string
	errorLocation string
}

func collectMeta(r *slog.Record) recordMeta {
	meta := recordMeta{logType: TypeSystem}
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "type":
			switch a.Value.String() {
			case "cmd":
				meta.logType = TypeCommand
			case "db":
				meta.logType = TypeDB
			case "mod", "moderation":
				meta.logType = TypeModeration
			case "error":
				meta.logType = TypeError
			}
		case "status":
			meta.status = a.Value.String()
		case "guild_id":
			meta.guildID = a.Value.String()
		case "error":
			meta.errorDetails = fmt.Sprintf("%v", a.Value)
		case "error_location":
			meta.errorLocation = a.Value.String()
		}
		return true
	})
	return meta
}

func shouldSkipLog(r *slog.Record) bool {
	skippedMessages := []string{
		"locking buckets",
		"unlocking buckets",
		"gateway event",
		"cleaning up bucket",
		"cleaned up rate limit buckets",
		"binary message received",
		"received gateway message",
		"opening gateway connection",
		"locking gateway rate limiter",
		"unlocking gateway rate limiter",
		"sending gateway command",
		"new request",
		"new response",
		"locking rest bucket",
		"unlocking rest bucket",
		"rate limit response headers",
		"sending heartbeat",
	}

	lower := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(lower, skip) {
			return true
		}
	}

	return false
}

func sourceLocation() (string, int) {
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}

func isInternalAttr(key string) bool {
	switch key {
	case "type", "status", "guild_id", "error", "error_location":
		return true
	}
	return false
}
