package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
)

// Store is the storage contract shared by the in-memory arena and the
// PostgreSQL backend. All access goes through a transaction: writable
// transactions are all-or-nothing, read-only transactions observe a
// consistent snapshot.
type Store interface {
	// Begin starts a transaction. The caller must finish it with Commit or
	// Rollback on every path; Rollback after a successful Commit is a no-op.
	Begin(ctx context.Context, writable bool) (Tx, error)

	// Close releases the backing resources
	Close()
}

// Tx exposes the entity operations of one transaction. Get and Find
// operations return (nil, nil) when the row is absent; errors are reserved
// for storage failures.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Guilds
	GetGuild(ctx context.Context, id int64) (*entities.Guild, error)
	PutGuild(ctx context.Context, guild *entities.Guild) error

	// Members
	GetMember(ctx context.Context, id int64) (*entities.Member, error)
	PutMember(ctx context.Context, member *entities.Member) error
	DeleteMember(ctx context.Context, id int64) error

	// Settings
	GetSettings(ctx context.Context, userID int64) (*entities.UserSettings, error)
	PutSettings(ctx context.Context, settings *entities.UserSettings) error
	DeleteSettings(ctx context.Context, userID int64) error

	// Playlists
	GetPlaylist(ctx context.Context, id uuid.UUID) (*entities.Playlist, error)
	PutPlaylist(ctx context.Context, playlist *entities.Playlist) error
	DeletePlaylist(ctx context.Context, id uuid.UUID) error
	// ListPlaylistsByOwner returns the member's playlists ordered by
	// creation time
	ListPlaylistsByOwner(ctx context.Context, userID int64) ([]*entities.Playlist, error)
	// FindPlaylistByName looks up an owner's playlist by exact name
	FindPlaylistByName(ctx context.Context, userID int64, name string) (*entities.Playlist, error)

	// Tracks
	GetTrack(ctx context.Context, id uuid.UUID) (*entities.Track, error)
	PutTrack(ctx context.Context, track *entities.Track) error
	DeleteTrack(ctx context.Context, id uuid.UUID) error
	// ListTracksByPlaylist returns the playlist's tracks ordered by
	// position ascending
	ListTracksByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]*entities.Track, error)
	DeleteTracksByPlaylist(ctx context.Context, playlistID uuid.UUID) error
}
