package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// ParseDuration reads moderator-friendly durations: "300" (seconds), "300s",
// "5m", "2h", "2d" and compounds like "1h30m". time.ParseDuration is not
// used because it has no day unit and treats bare numbers as errors.
func ParseDuration(input string) (time.Duration, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	var total time.Duration
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && unicode.IsDigit(rune(s[i])) {
			i++
		}
		if start == i {
			return 0, fmt.Errorf("invalid duration %q: expected a number at position %d", input, start)
		}

		var n int64
		for _, c := range s[start:i] {
			n = n*10 + int64(c-'0')
			if n > 1<<40 {
				return 0, fmt.Errorf("invalid duration %q: number too large", input)
			}
		}

		if i == len(s) {
			// Bare trailing number means seconds, but only when it is the
			// whole input ("300") or follows other units ("1h30").
			total += time.Duration(n) * time.Second
			break
		}

		switch s[i] {
		case 's':
			total += time.Duration(n) * time.Second
		case 'm':
			total += time.Duration(n) * time.Minute
		case 'h':
			total += time.Duration(n) * time.Hour
		case 'd':
			total += time.Duration(n) * 24 * time.Hour
		default:
			return 0, fmt.Errorf("invalid duration %q: unknown unit %q", input, string(s[i]))
		}
		i++
	}

	return total, nil
}

// FormatDuration renders a duration the way ParseDuration reads it.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	var b strings.Builder
	if days := d / (24 * time.Hour); days > 0 {
		fmt.Fprintf(&b, "%dd", days)
		d -= days * 24 * time.Hour
	}
	if hours := d / time.Hour; hours > 0 {
		fmt.Fprintf(&b, "%dh", hours)
		d -= hours * time.Hour
	}
	if minutes := d / time.Minute; minutes > 0 {
		fmt.Fprintf(&b, "%dm", minutes)
		d -= minutes * time.Minute
	}
	if seconds := d / time.Second; seconds > 0 {
		fmt.Fprintf(&b, "%ds", seconds)
	}
	return b.String()
}
