package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vohk/reacter/reacter/emoji"
	"github.com/vohk/reacter/reacter/moderation/mock"
	"go.uber.org/mock/gomock"
)

func unicodePartial(name string) discord.PartialEmoji {
	return discord.PartialEmoji{Name: &name}
}

func customPartial(name string, id snowflake.ID) discord.PartialEmoji {
	return discord.PartialEmoji{ID: &id, Name: &name}
}

func TestMatcherCheckBlockedUnicode(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	migrations := mock.NewMockMigrations(ctrl)

	guildID := snowflake.ID(100)
	key := emoji.Key{Type: emoji.TypeUnicode, Value: "😀"}

	migrations.EXPECT().EnsureMigrated(gomock.Any(), guildID).Return(nil)
	store.EXPECT().IsBlacklisted(gomock.Any(), guildID, key).Return(true, nil)

	m := NewMatcher(store, migrations)
	decision, err := m.Check(context.Background(), guildID, unicodePartial("😀"))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Blocked {
		t.Error("decision.Blocked = false, want true")
	}
	if decision.Key != key {
		t.Errorf("decision.Key = %v, want %v", decision.Key, key)
	}
}

func TestMatcherCheckCustomMatchesByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	migrations := mock.NewMockMigrations(ctrl)

	guildID := snowflake.ID(100)
	// Identity is the id; the current name tags along for display only.
	want := emoji.Key{Type: emoji.TypeCustom, Value: "123456", Name: "renamed_blob"}

	migrations.EXPECT().EnsureMigrated(gomock.Any(), guildID).Return(nil)
	store.EXPECT().IsBlacklisted(gomock.Any(), guildID, want).Return(true, nil)

	m := NewMatcher(store, migrations)
	decision, err := m.Check(context.Background(), guildID, customPartial("renamed_blob", 123456))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Blocked {
		t.Error("decision.Blocked = false, want true")
	}
}

func TestMatcherCheckNotBlocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	migrations := mock.NewMockMigrations(ctrl)

	guildID := snowflake.ID(100)

	migrations.EXPECT().EnsureMigrated(gomock.Any(), guildID).Return(nil)
	store.EXPECT().IsBlacklisted(gomock.Any(), guildID, gomock.Any()).Return(false, nil)

	m := NewMatcher(store, migrations)
	decision, err := m.Check(context.Background(), guildID, unicodePartial("🎉"))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if decision.Blocked {
		t.Error("decision.Blocked = true, want false")
	}
}

func TestMatcherCheckMalformedEmojiNeverBlocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	migrations := mock.NewMockMigrations(ctrl)
	// Neither collaborator may be called for an emoji that fails to
	// normalize.

	m := NewMatcher(store, migrations)
	decision, err := m.Check(context.Background(), 100, discord.PartialEmoji{})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if decision.Blocked {
		t.Error("malformed emoji must not block")
	}
}

func TestMatcherCheckPropagatesStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	migrations := mock.NewMockMigrations(ctrl)

	guildID := snowflake.ID(100)
	wantErr := errors.New("connection refused")

	migrations.EXPECT().EnsureMigrated(gomock.Any(), guildID).Return(nil)
	store.EXPECT().IsBlacklisted(gomock.Any(), guildID, gomock.Any()).Return(false, wantErr)

	m := NewMatcher(store, migrations)
	decision, err := m.Check(context.Background(), guildID, unicodePartial("😀"))
	if !errors.Is(err, wantErr) {
		t.Fatalf("Check() error = %v, want %v", err, wantErr)
	}
	if decision.Blocked {
		t.Error("errored check must not block")
	}
}

func TestMatcherCheckMigrationFailureSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	migrations := mock.NewMockMigrations(ctrl)

	guildID := snowflake.ID(100)
	wantErr := errors.New("legacy file unreadable")

	migrations.EXPECT().EnsureMigrated(gomock.Any(), guildID).Return(wantErr)

	m := NewMatcher(store, migrations)
	_, err := m.Check(context.Background(), guildID, unicodePartial("😀"))
	if !errors.Is(err, wantErr) {
		t.Fatalf("Check() error = %v, want %v", err, wantErr)
	}
}
