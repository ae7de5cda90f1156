package memory_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
	"github.com/j3rr7/MusicBotRewrite/internal/storage/memory"
)

func TestCommitMakesWritesVisible(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	tx, err := store.Begin(ctx, true)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := tx.PutMember(ctx, entities.NewMember(42)); err != nil {
		t.Fatalf("PutMember failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	read, err := store.Begin(ctx, false)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer read.Rollback(ctx)

	member, err := read.GetMember(ctx, 42)
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if member == nil {
		t.Error("Committed member should be visible")
	}
}

func TestRollbackRestoresPriorState(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	playlistID := uuid.New()
	now := time.Now()

	// Seed a member with one playlist and one track
	tx, _ := store.Begin(ctx, true)
	tx.PutMember(ctx, entities.NewMember(1))
	tx.PutPlaylist(ctx, entities.NewPlaylist(playlistID, 1, "seed", false, now))
	trackID := uuid.New()
	tx.PutTrack(ctx, entities.NewTrack(trackID, playlistID, entities.TrackData{URL: "u", Title: "t"}, 1000, now))
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// Mutate everything, then roll back
	tx, _ = store.Begin(ctx, true)
	tx.DeleteTrack(ctx, trackID)
	tx.DeletePlaylist(ctx, playlistID)
	tx.DeleteSettings(ctx, 1)
	tx.DeleteMember(ctx, 1)
	tx.PutMember(ctx, entities.NewMember(2))
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	read, _ := store.Begin(ctx, false)
	defer read.Rollback(ctx)

	if m, _ := read.GetMember(ctx, 1); m == nil {
		t.Error("Rollback should restore the deleted member")
	}
	if m, _ := read.GetMember(ctx, 2); m != nil {
		t.Error("Rollback should discard the inserted member")
	}
	if p, _ := read.GetPlaylist(ctx, playlistID); p == nil {
		t.Error("Rollback should restore the deleted playlist")
	}
	tracks, err := read.ListTracksByPlaylist(ctx, playlistID)
	if err != nil {
		t.Fatalf("ListTracksByPlaylist failed: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != trackID {
		t.Errorf("Rollback should restore the track index, got %d tracks", len(tracks))
	}
}

func TestListTracksSortedByPosition(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	playlistID := uuid.New()
	now := time.Now()

	tx, _ := store.Begin(ctx, true)
	tx.PutMember(ctx, entities.NewMember(1))
	tx.PutPlaylist(ctx, entities.NewPlaylist(playlistID, 1, "p", false, now))
	// Insert out of order
	for _, pos := range []int{3000, 1000, 2000} {
		track := entities.NewTrack(uuid.New(), playlistID, entities.TrackData{URL: "u", Title: "t"}, pos, now)
		tx.PutTrack(ctx, track)
	}
	tx.Commit(ctx)

	read, _ := store.Begin(ctx, false)
	defer read.Rollback(ctx)

	tracks, err := read.ListTracksByPlaylist(ctx, playlistID)
	if err != nil {
		t.Fatalf("ListTracksByPlaylist failed: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("Expected 3 tracks, got %d", len(tracks))
	}
	for i := 1; i < len(tracks); i++ {
		if tracks[i-1].Position >= tracks[i].Position {
			t.Errorf("Tracks not sorted: position %d before %d", tracks[i-1].Position, tracks[i].Position)
		}
	}
}

func TestListPlaylistsSortedByCreation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	base := time.Now()

	tx, _ := store.Begin(ctx, true)
	tx.PutMember(ctx, entities.NewMember(1))
	third := entities.NewPlaylist(uuid.New(), 1, "third", false, base.Add(2*time.Second))
	first := entities.NewPlaylist(uuid.New(), 1, "first", false, base)
	second := entities.NewPlaylist(uuid.New(), 1, "second", false, base.Add(time.Second))
	tx.PutPlaylist(ctx, third)
	tx.PutPlaylist(ctx, first)
	tx.PutPlaylist(ctx, second)
	tx.Commit(ctx)

	read, _ := store.Begin(ctx, false)
	defer read.Rollback(ctx)

	playlists, err := read.ListPlaylistsByOwner(ctx, 1)
	if err != nil {
		t.Fatalf("ListPlaylistsByOwner failed: %v", err)
	}
	var names []string
	for _, p := range playlists {
		names = append(names, p.Name)
	}
	if len(names) != 3 || names[0] != "first" || names[1] != "second" || names[2] != "third" {
		t.Errorf("Expected creation order, got %v", names)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	tx, _ := store.Begin(ctx, true)
	tx.PutGuild(ctx, entities.NewGuild(7))
	tx.Commit(ctx)

	read, _ := store.Begin(ctx, false)
	guild, _ := read.GetGuild(ctx, 7)
	read.Rollback(ctx)

	// Mutating the returned value must not leak into the store
	channel := int64(99)
	guild.LastChannelID = &channel

	read, _ = store.Begin(ctx, false)
	defer read.Rollback(ctx)
	again, _ := read.GetGuild(ctx, 7)
	if again.LastChannelID != nil {
		t.Error("Mutation of a returned entity leaked into the store")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	playlistID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	tx, _ := store.Begin(ctx, true)
	tx.PutGuild(ctx, entities.NewGuild(5))
	tx.PutMember(ctx, entities.NewMember(1))
	settings := entities.DefaultSettings(1)
	settings.Volume = 250
	settings.LastUpdated = now
	tx.PutSettings(ctx, settings)
	tx.PutPlaylist(ctx, entities.NewPlaylist(playlistID, 1, "road trip", true, now))
	artist := "Artist"
	tx.PutTrack(ctx, entities.NewTrack(uuid.New(), playlistID,
		entities.TrackData{URL: "https://youtu.be/abc", Title: "Song", Artist: &artist}, 1000, now))
	tx.Commit(ctx)

	path := filepath.Join(t.TempDir(), "library.json")
	if err := store.SaveSnapshot(path); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	restored := memory.New()
	if err := restored.LoadSnapshot(path); err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	read, _ := restored.Begin(ctx, false)
	defer read.Rollback(ctx)

	if g, _ := read.GetGuild(ctx, 5); g == nil {
		t.Error("Guild missing after snapshot round trip")
	}
	if s, _ := read.GetSettings(ctx, 1); s == nil || s.Volume != 250 {
		t.Error("Settings missing or wrong after snapshot round trip")
	}
	playlists, _ := read.ListPlaylistsByOwner(ctx, 1)
	if len(playlists) != 1 || playlists[0].Name != "road trip" {
		t.Fatalf("Playlist missing after snapshot round trip")
	}
	tracks, _ := read.ListTracksByPlaylist(ctx, playlistID)
	if len(tracks) != 1 || tracks[0].Artist == nil || *tracks[0].Artist != "Artist" {
		t.Error("Track missing or wrong after snapshot round trip")
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	store := memory.New()
	if err := store.LoadSnapshot(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Errorf("Missing snapshot file should not be an error, got %v", err)
	}
}
