package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/j3rr7/MusicBotRewrite/internal/errors"
)

func TestCreatePlaylist(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	lib.identity.EnsureMember(ctx, 1)

	playlist, err := lib.playlists.CreatePlaylist(ctx, 1, "Favorites", false)
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if playlist.Name != "Favorites" {
		t.Errorf("Expected name Favorites, got %q", playlist.Name)
	}
	if playlist.IsPublic {
		t.Error("Playlist should default to private")
	}
	if playlist.ID == uuid.Nil {
		t.Error("Playlist should get a generated id")
	}
	if !playlist.UpdatedAt.Equal(playlist.CreatedAt) {
		t.Error("A fresh playlist's updated_at should equal created_at")
	}
}

func TestCreatePlaylistValidation(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	lib.identity.EnsureMember(ctx, 1)

	if _, err := lib.playlists.CreatePlaylist(ctx, 1, "", false); !apperrors.Is(err, apperrors.ErrEmptyPlaylistName) {
		t.Errorf("Expected empty-name error, got %v", err)
	}
	if _, err := lib.playlists.CreatePlaylist(ctx, 404, "orphan", false); !apperrors.Is(err, apperrors.ErrMemberNotFound) {
		t.Errorf("Expected member not found, got %v", err)
	}
}

func TestCreatePlaylistDuplicateName(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	lib.identity.EnsureMember(ctx, 1)
	lib.identity.EnsureMember(ctx, 2)

	if _, err := lib.playlists.CreatePlaylist(ctx, 1, "mix", false); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if _, err := lib.playlists.CreatePlaylist(ctx, 1, "mix", false); !apperrors.Is(err, apperrors.ErrPlaylistExists) {
		t.Errorf("Expected duplicate-name conflict, got %v", err)
	}
	// Another member can reuse the name
	if _, err := lib.playlists.CreatePlaylist(ctx, 2, "mix", false); err != nil {
		t.Errorf("Name should be free for a different owner, got %v", err)
	}
}

func TestRenamePlaylist(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	lib.identity.EnsureMember(ctx, 1)

	playlist, _ := lib.playlists.CreatePlaylist(ctx, 1, "old name", false)
	created := playlist.UpdatedAt

	if err := lib.playlists.RenamePlaylist(ctx, playlist.ID, "new name"); err != nil {
		t.Fatalf("RenamePlaylist failed: %v", err)
	}

	renamed, err := lib.playlists.GetPlaylist(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("GetPlaylist failed: %v", err)
	}
	if renamed.Name != "new name" {
		t.Errorf("Expected new name, got %q", renamed.Name)
	}
	if renamed.UpdatedAt.Before(created) {
		t.Error("Rename should bump updated_at")
	}

	if err := lib.playlists.RenamePlaylist(ctx, uuid.New(), "x"); !apperrors.Is(err, apperrors.ErrPlaylistNotFound) {
		t.Errorf("Expected playlist not found, got %v", err)
	}
}

func TestSetVisibility(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	lib.identity.EnsureMember(ctx, 1)

	playlist, _ := lib.playlists.CreatePlaylist(ctx, 1, "shared", false)
	if err := lib.playlists.SetVisibility(ctx, playlist.ID, true); err != nil {
		t.Fatalf("SetVisibility failed: %v", err)
	}
	got, _ := lib.playlists.GetPlaylist(ctx, playlist.ID)
	if !got.IsPublic {
		t.Error("Playlist should be public after SetVisibility(true)")
	}
}

func TestDeletePlaylistIdempotent(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	lib.identity.EnsureMember(ctx, 1)

	playlist, _ := lib.playlists.CreatePlaylist(ctx, 1, "doomed", false)
	lib.tracks.AppendTrack(ctx, playlist.ID, trackData("Song", "https://youtu.be/x"))

	if err := lib.playlists.DeletePlaylist(ctx, playlist.ID); err != nil {
		t.Fatalf("DeletePlaylist failed: %v", err)
	}
	if _, err := lib.playlists.GetPlaylist(ctx, playlist.ID); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected playlist gone, got %v", err)
	}

	// Second delete is a silent no-op
	if err := lib.playlists.DeletePlaylist(ctx, playlist.ID); err != nil {
		t.Errorf("Repeated delete should succeed, got %v", err)
	}
	// So is deleting an id that never existed
	if err := lib.playlists.DeletePlaylist(ctx, uuid.New()); err != nil {
		t.Errorf("Deleting an unknown playlist should succeed, got %v", err)
	}
}

func TestListPlaylistsOrderedByCreation(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	lib.identity.EnsureMember(ctx, 1)

	names := []string{"first", "second", "third"}
	for _, name := range names {
		if _, err := lib.playlists.CreatePlaylist(ctx, 1, name, false); err != nil {
			t.Fatalf("CreatePlaylist(%s) failed: %v", name, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	playlists, err := lib.playlists.ListPlaylists(ctx, 1)
	if err != nil {
		t.Fatalf("ListPlaylists failed: %v", err)
	}
	if len(playlists) != len(names) {
		t.Fatalf("Expected %d playlists, got %d", len(names), len(playlists))
	}
	for i, p := range playlists {
		if p.Name != names[i] {
			t.Errorf("Position %d: expected %q, got %q", i, names[i], p.Name)
		}
	}
}

func TestListPlaylistsUnknownMemberIsEmpty(t *testing.T) {
	lib := newTestLibrary(t)

	playlists, err := lib.playlists.ListPlaylists(context.Background(), 404)
	if err != nil {
		t.Fatalf("ListPlaylists failed: %v", err)
	}
	if len(playlists) != 0 {
		t.Errorf("Expected no playlists, got %d", len(playlists))
	}
}
