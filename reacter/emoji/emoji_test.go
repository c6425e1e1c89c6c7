package emoji

import (
	"errors"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Key
		wantErr bool
	}{
		{
			name:  "custom mention",
			input: "<:blob:123456789012345678>",
			want:  Key{Type: TypeCustom, Value: "123456789012345678", Name: "blob"},
		},
		{
			name:  "animated custom mention",
			input: "<a:party:555>",
			want:  Key{Type: TypeCustom, Value: "555", Name: "party", Animated: true},
		},
		{
			name:  "bare custom id",
			input: "555",
			want:  Key{Type: TypeCustom, Value: "555"},
		},
		{
			name:  "unicode emoji",
			input: "😀",
			want:  Key{Type: TypeUnicode, Value: "😀"},
		},
		{
			name:  "skin toned variant keeps its modifier",
			input: "👍🏽",
			want:  Key{Type: TypeUnicode, Value: "👍🏽"},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  😀 ",
			want:  Key{Type: TypeUnicode, Value: "😀"},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "name only reference",
			input:   ":blob:",
			wantErr: true,
		},
		{
			name:    "truncated mention",
			input:   "<:blob:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("Parse(%q) error = %v, want ErrMalformed", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	first, err := Parse("👍🏽")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse("👍🏽")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated Parse differs: %+v vs %+v", first, second)
	}

	base, _ := Parse("👍")
	if base.String() == first.String() {
		t.Errorf("base and toned variant collided on %q", base.String())
	}
}

func TestFromPartial(t *testing.T) {
	id := snowflake.ID(98765)
	name := "blob"
	unicode := "😀"
	empty := ""

	tests := []struct {
		name    string
		in      discord.PartialEmoji
		want    Key
		wantErr bool
	}{
		{
			name: "custom emoji",
			in:   discord.PartialEmoji{ID: &id, Name: &name},
			want: Key{Type: TypeCustom, Value: "98765", Name: "blob"},
		},
		{
			name: "custom emoji without name",
			in:   discord.PartialEmoji{ID: &id},
			want: Key{Type: TypeCustom, Value: "98765"},
		},
		{
			name: "animated custom emoji",
			in:   discord.PartialEmoji{ID: &id, Name: &name, Animated: true},
			want: Key{Type: TypeCustom, Value: "98765", Name: "blob", Animated: true},
		},
		{
			name: "unicode emoji",
			in:   discord.PartialEmoji{Name: &unicode},
			want: Key{Type: TypeUnicode, Value: "😀"},
		},
		{
			name:    "no identity at all",
			in:      discord.PartialEmoji{},
			wantErr: true,
		},
		{
			name:    "empty name",
			in:      discord.PartialEmoji{Name: &empty},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromPartial(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromPartial() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("FromPartial() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{Key{Type: TypeUnicode, Value: "😀"}, "😀"},
		{Key{Type: TypeCustom, Value: "555", Name: "blob"}, "<:blob:555>"},
		{Key{Type: TypeCustom, Value: "555", Name: "party", Animated: true}, "<a:party:555>"},
		{Key{Type: TypeCustom, Value: "555"}, "<:unknown:555>"},
	}

	for _, tt := range tests {
		if got := tt.key.Display(); got != tt.want {
			t.Errorf("Display(%+v) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
