// Package emoji canonicalizes emoji references into comparable identities.
//
// A Unicode emoji is identified by its exact codepoint sequence as received
// from the gateway; no case folding and no skin-tone stripping, so a
// blacklist entry for a toned variant matches only that variant. A custom
// emoji is identified by its platform-assigned snowflake id; display names
// are mutable and never part of the identity.
package emoji

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/disgoorg/disgo/discord"
)

type Type string

const (
	TypeUnicode Type = "unicode"
	TypeCustom  Type = "custom"
)

// ErrMalformed marks an emoji reference that cannot be resolved to an
// identity. Malformed references never match a blacklist entry.
var ErrMalformed = errors.New("malformed emoji reference")

// Key is the normalized, guild-independent identity of an emoji. Equality is
// defined by (Type, Value); Name and Animated are display metadata only.
type Key struct {
	Type     Type
	Value    string
	Name     string
	Animated bool
}

var customPattern = regexp.MustCompile(`\A<(a?):(\w+):(\d+)>\z`)

// FromPartial normalizes a gateway reaction payload. Custom emoji come with
// a non-nil id; everything else is the raw Unicode sequence in the name
// field.
func FromPartial(e discord.PartialEmoji) (Key, error) {
	if e.ID != nil {
		name := ""
		if e.Name != nil {
			name = *e.Name
		}
		return Key{Type: TypeCustom, Value: e.ID.String(), Name: name, Animated: e.Animated}, nil
	}
	if e.Name == nil || *e.Name == "" {
		return Key{}, ErrMalformed
	}
	return Key{Type: TypeUnicode, Value: *e.Name}, nil
}

// Parse normalizes admin command input. Accepted forms are the custom emoji
// mention (<:name:id> or <a:name:id>), a bare custom emoji id, or a Unicode
// sequence. A custom emoji referenced by name alone is not resolvable and is
// rejected rather than guessed.
func Parse(input string) (Key, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Key{}, ErrMalformed
	}

	if m := customPattern.FindStringSubmatch(input); m != nil {
		return Key{
			Type:     TypeCustom,
			Value:    m[3],
			Name:     m[2],
			Animated: m[1] == "a",
		}, nil
	}

	if isDigits(input) {
		return Key{Type: TypeCustom, Value: input}, nil
	}

	if strings.HasPrefix(input, "<") || strings.HasPrefix(input, ":") {
		// A mention-like or name-only reference that did not parse above.
		return Key{}, ErrMalformed
	}

	return Key{Type: TypeUnicode, Value: input}, nil
}

// String is the stable comparable form used for map keys and logs.
func (k Key) String() string {
	return string(k.Type) + ":" + k.Value
}

// Display renders the emoji the way Discord shows it.
func (k Key) Display() string {
	if k.Type == TypeUnicode {
		return k.Value
	}
	name := k.Name
	if name == "" {
		name = "unknown"
	}
	if k.Animated {
		return fmt.Sprintf("<a:%s:%s>", name, k.Value)
	}
	return fmt.Sprintf("<:%s:%s>", name, k.Value)
}

// APIName is the reaction endpoint parameter form: the raw sequence for
// Unicode emoji, name:id for custom emoji.
func (k Key) APIName() string {
	if k.Type == TypeUnicode {
		return k.Value
	}
	name := k.Name
	if name == "" {
		name = "emoji"
	}
	return name + ":" + k.Value
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
