package migration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vohk/reacter/reacter/emoji"
)

// legacyFile mirrors the pre-database blacklist file. Two shapes exist in the
// wild: the split form with unicode_emojis, custom_emoji_ids and
// custom_emoji_names, and an older one holding a flat "emojis" list of
// display strings.
type legacyFile struct {
	Emojis           []string          `json:"emojis"`
	UnicodeEmojis    []string          `json:"unicode_emojis"`
	CustomEmojiIDs   []flexID          `json:"custom_emoji_ids"`
	CustomEmojiNames map[string]string `json:"custom_emoji_names"`
}

// flexID accepts a custom emoji id written either as a JSON number or as a
// quoted string. Decoding goes through json.Number so 18-digit ids never
// pass through float64.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("custom emoji id is neither number nor string: %s", data)
	}
	*f = flexID(n.String())
	return nil
}

// LegacySnapshot is the parsed, deduplicated content of a legacy file.
type LegacySnapshot struct {
	Keys        []emoji.Key
	SourceCount int
	Skipped     int
}

// ParseLegacy decodes either legacy file shape into a deduplicated key list.
// Malformed entries are counted, not fatal; a file that fails to decode at
// all is.
func ParseLegacy(data []byte) (*LegacySnapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var file legacyFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode legacy blacklist: %w", err)
	}

	snap := &LegacySnapshot{}
	seen := make(map[string]struct{})

	add := func(key emoji.Key) {
		id := key.String()
		if _, dup := seen[id]; dup {
			snap.Skipped++
			return
		}
		seen[id] = struct{}{}
		snap.Keys = append(snap.Keys, key)
	}

	for _, raw := range file.Emojis {
		snap.SourceCount++
		key, err := emoji.Parse(raw)
		if err != nil {
			snap.Skipped++
			continue
		}
		add(key)
	}

	for _, value := range file.UnicodeEmojis {
		snap.SourceCount++
		if strings.TrimSpace(value) == "" {
			snap.Skipped++
			continue
		}
		add(emoji.Key{Type: emoji.TypeUnicode, Value: value})
	}

	for _, id := range file.CustomEmojiIDs {
		snap.SourceCount++
		if _, err := strconv.ParseUint(string(id), 10, 64); err != nil {
			snap.Skipped++
			continue
		}
		add(emoji.Key{
			Type:  emoji.TypeCustom,
			Value: string(id),
			Name:  file.CustomEmojiNames[string(id)],
		})
	}

	return snap, nil
}
