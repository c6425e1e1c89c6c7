package migration

import (
	"testing"

	"github.com/vohk/reacter/reacter/emoji"
)

func TestParseLegacySplitFormat(t *testing.T) {
	data := []byte(`{
		"unicode_emojis": ["😀", "🔥"],
		"custom_emoji_ids": [123456789012345678, "987654321098765432"],
		"custom_emoji_names": {"123456789012345678": "blob"}
	}`)

	snap, err := ParseLegacy(data)
	if err != nil {
		t.Fatalf("ParseLegacy() error = %v", err)
	}

	if snap.SourceCount != 4 {
		t.Errorf("SourceCount = %d, want 4", snap.SourceCount)
	}
	if snap.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", snap.Skipped)
	}
	if len(snap.Keys) != 4 {
		t.Fatalf("len(Keys) = %d, want 4", len(snap.Keys))
	}

	byID := make(map[string]emoji.Key)
	for _, key := range snap.Keys {
		byID[key.String()] = key
	}

	if _, ok := byID["unicode:😀"]; !ok {
		t.Errorf("missing unicode key, got %v", byID)
	}
	named, ok := byID["custom:123456789012345678"]
	if !ok {
		t.Fatalf("missing custom key 123456789012345678")
	}
	if named.Name != "blob" {
		t.Errorf("custom name = %q, want %q", named.Name, "blob")
	}
	// The 18-digit string id must survive verbatim.
	if _, ok := byID["custom:987654321098765432"]; !ok {
		t.Errorf("string id did not round-trip, got %v", byID)
	}
}

func TestParseLegacyFlatFormat(t *testing.T) {
	data := []byte(`{"emojis": ["😀", "<:blob:123456789012345678>", "not<valid"]}`)

	snap, err := ParseLegacy(data)
	if err != nil {
		t.Fatalf("ParseLegacy() error = %v", err)
	}

	if snap.SourceCount != 3 {
		t.Errorf("SourceCount = %d, want 3", snap.SourceCount)
	}
	if snap.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", snap.Skipped)
	}
	if len(snap.Keys) != 2 {
		t.Fatalf("len(Keys) = %d, want 2", len(snap.Keys))
	}
	if snap.Keys[1].Type != emoji.TypeCustom || snap.Keys[1].Name != "blob" {
		t.Errorf("custom key = %+v, want custom blob", snap.Keys[1])
	}
}

func TestParseLegacyDeduplicates(t *testing.T) {
	data := []byte(`{
		"emojis": ["😀"],
		"unicode_emojis": ["😀"],
		"custom_emoji_ids": [42, 42]
	}`)

	snap, err := ParseLegacy(data)
	if err != nil {
		t.Fatalf("ParseLegacy() error = %v", err)
	}

	if len(snap.Keys) != 2 {
		t.Errorf("len(Keys) = %d, want 2", len(snap.Keys))
	}
	if snap.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", snap.Skipped)
	}
}

func TestParseLegacyRejectsGarbage(t *testing.T) {
	if _, err := ParseLegacy([]byte(`{"unicode_emojis": "not a list"`)); err == nil {
		t.Error("ParseLegacy() on truncated JSON should fail")
	}
	if _, err := ParseLegacy([]byte(`[]`)); err == nil {
		t.Error("ParseLegacy() on non-object JSON should fail")
	}
}

func TestParseLegacySkipsBadIDs(t *testing.T) {
	data := []byte(`{"custom_emoji_ids": ["abc", -5, 123]}`)

	snap, err := ParseLegacy(data)
	if err != nil {
		t.Fatalf("ParseLegacy() error = %v", err)
	}
	if snap.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", snap.Skipped)
	}
	if len(snap.Keys) != 1 || snap.Keys[0].Value != "123" {
		t.Errorf("Keys = %v, want single custom:123", snap.Keys)
	}
}
