// Package memory implements the storage contract as an in-process arena:
// plain maps keyed by id plus ownership indexes, guarded by a single
// read-write mutex. A writable transaction holds the write lock for its
// whole lifetime and keeps an undo log, so rollback restores every touched
// row and readers never observe a half-applied mutation.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/repositories"
)

// Store is an arena-backed implementation of repositories.Store
type Store struct {
	mu sync.RWMutex

	guilds    map[int64]*entities.Guild
	members   map[int64]*entities.Member
	settings  map[int64]*entities.UserSettings
	playlists map[uuid.UUID]*entities.Playlist
	tracks    map[uuid.UUID]*entities.Track

	// Ownership indexes, maintained by every put/delete
	playlistsByOwner map[int64]map[uuid.UUID]struct{}
	tracksByPlaylist map[uuid.UUID]map[uuid.UUID]struct{}
}

// New creates an empty store
func New() *Store {
	return &Store{
		guilds:           make(map[int64]*entities.Guild),
		members:          make(map[int64]*entities.Member),
		settings:         make(map[int64]*entities.UserSettings),
		playlists:        make(map[uuid.UUID]*entities.Playlist),
		tracks:           make(map[uuid.UUID]*entities.Track),
		playlistsByOwner: make(map[int64]map[uuid.UUID]struct{}),
		tracksByPlaylist: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

// Begin starts a transaction. Writable transactions take the write lock
// until Commit or Rollback; read-only transactions take the read lock.
func (s *Store) Begin(ctx context.Context, writable bool) (repositories.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if writable {
		s.mu.Lock()
	} else {
		s.mu.RLock()
	}
	return &tx{store: s, writable: writable}, nil
}

// Close is a no-op for the arena store
func (s *Store) Close() {}

func (s *Store) sortedPlaylists(userID int64) []*entities.Playlist {
	ids := s.playlistsByOwner[userID]
	out := make([]*entities.Playlist, 0, len(ids))
	for id := range ids {
		if p, ok := s.playlists[id]; ok {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *Store) sortedTracks(playlistID uuid.UUID) []*entities.Track {
	ids := s.tracksByPlaylist[playlistID]
	out := make([]*entities.Track, 0, len(ids))
	for id := range ids {
		if t, ok := s.tracks[id]; ok {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (s *Store) indexPlaylist(p *entities.Playlist) {
	owned, ok := s.playlistsByOwner[p.UserID]
	if !ok {
		owned = make(map[uuid.UUID]struct{})
		s.playlistsByOwner[p.UserID] = owned
	}
	owned[p.ID] = struct{}{}
}

func (s *Store) unindexPlaylist(p *entities.Playlist) {
	if owned, ok := s.playlistsByOwner[p.UserID]; ok {
		delete(owned, p.ID)
		if len(owned) == 0 {
			delete(s.playlistsByOwner, p.UserID)
		}
	}
}

func (s *Store) indexTrack(t *entities.Track) {
	siblings, ok := s.tracksByPlaylist[t.PlaylistID]
	if !ok {
		siblings = make(map[uuid.UUID]struct{})
		s.tracksByPlaylist[t.PlaylistID] = siblings
	}
	siblings[t.ID] = struct{}{}
}

func (s *Store) unindexTrack(t *entities.Track) {
	if siblings, ok := s.tracksByPlaylist[t.PlaylistID]; ok {
		delete(siblings, t.ID)
		if len(siblings) == 0 {
			delete(s.tracksByPlaylist, t.PlaylistID)
		}
	}
}
