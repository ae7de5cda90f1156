package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
)

// tx applies mutations directly to the arena while holding the store lock.
// Every mutation pushes an inverse operation onto the undo log; Rollback
// replays the log in reverse, restoring the pre-transaction state.
type tx struct {
	store    *Store
	writable bool
	done     bool
	undo     []func()
}

func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.done = true
	t.undo = nil
	t.unlock()
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.unlock()
	return nil
}

func (t *tx) unlock() {
	if t.writable {
		t.store.mu.Unlock()
	} else {
		t.store.mu.RUnlock()
	}
}

func (t *tx) check(write bool) error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	if write && !t.writable {
		return fmt.Errorf("write on read-only transaction")
	}
	return nil
}

// Guilds

func (t *tx) GetGuild(ctx context.Context, id int64) (*entities.Guild, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	if g, ok := t.store.guilds[id]; ok {
		return g.Clone(), nil
	}
	return nil, nil
}

func (t *tx) PutGuild(ctx context.Context, guild *entities.Guild) error {
	if err := t.check(true); err != nil {
		return err
	}
	prev, had := t.store.guilds[guild.ID]
	t.undo = append(t.undo, func() {
		if had {
			t.store.guilds[guild.ID] = prev
		} else {
			delete(t.store.guilds, guild.ID)
		}
	})
	t.store.guilds[guild.ID] = guild.Clone()
	return nil
}

// Members

func (t *tx) GetMember(ctx context.Context, id int64) (*entities.Member, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	if m, ok := t.store.members[id]; ok {
		return m.Clone(), nil
	}
	return nil, nil
}

func (t *tx) PutMember(ctx context.Context, member *entities.Member) error {
	if err := t.check(true); err != nil {
		return err
	}
	prev, had := t.store.members[member.ID]
	t.undo = append(t.undo, func() {
		if had {
			t.store.members[member.ID] = prev
		} else {
			delete(t.store.members, member.ID)
		}
	})
	t.store.members[member.ID] = member.Clone()
	return nil
}

func (t *tx) DeleteMember(ctx context.Context, id int64) error {
	if err := t.check(true); err != nil {
		return err
	}
	prev, had := t.store.members[id]
	if !had {
		return nil
	}
	t.undo = append(t.undo, func() { t.store.members[id] = prev })
	delete(t.store.members, id)
	return nil
}

// Settings

func (t *tx) GetSettings(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	if s, ok := t.store.settings[userID]; ok {
		return s.Clone(), nil
	}
	return nil, nil
}

func (t *tx) PutSettings(ctx context.Context, settings *entities.UserSettings) error {
	if err := t.check(true); err != nil {
		return err
	}
	prev, had := t.store.settings[settings.UserID]
	t.undo = append(t.undo, func() {
		if had {
			t.store.settings[settings.UserID] = prev
		} else {
			delete(t.store.settings, settings.UserID)
		}
	})
	t.store.settings[settings.UserID] = settings.Clone()
	return nil
}

func (t *tx) DeleteSettings(ctx context.Context, userID int64) error {
	if err := t.check(true); err != nil {
		return err
	}
	prev, had := t.store.settings[userID]
	if !had {
		return nil
	}
	t.undo = append(t.undo, func() { t.store.settings[userID] = prev })
	delete(t.store.settings, userID)
	return nil
}

// Playlists

func (t *tx) GetPlaylist(ctx context.Context, id uuid.UUID) (*entities.Playlist, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	if p, ok := t.store.playlists[id]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

func (t *tx) PutPlaylist(ctx context.Context, playlist *entities.Playlist) error {
	if err := t.check(true); err != nil {
		return err
	}
	prev, had := t.store.playlists[playlist.ID]
	t.undo = append(t.undo, func() {
		if had {
			t.store.playlists[playlist.ID] = prev
			t.store.indexPlaylist(prev)
		} else {
			if cur, ok := t.store.playlists[playlist.ID]; ok {
				t.store.unindexPlaylist(cur)
			}
			delete(t.store.playlists, playlist.ID)
		}
	})
	if had {
		t.store.unindexPlaylist(prev)
	}
	clone := playlist.Clone()
	t.store.playlists[clone.ID] = clone
	t.store.indexPlaylist(clone)
	return nil
}

func (t *tx) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	if err := t.check(true); err != nil {
		return err
	}
	prev, had := t.store.playlists[id]
	if !had {
		return nil
	}
	t.undo = append(t.undo, func() {
		t.store.playlists[id] = prev
		t.store.indexPlaylist(prev)
	})
	t.store.unindexPlaylist(prev)
	delete(t.store.playlists, id)
	return nil
}

func (t *tx) ListPlaylistsByOwner(ctx context.Context, userID int64) ([]*entities.Playlist, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	return t.store.sortedPlaylists(userID), nil
}

func (t *tx) FindPlaylistByName(ctx context.Context, userID int64, name string) (*entities.Playlist, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	for id := range t.store.playlistsByOwner[userID] {
		if p, ok := t.store.playlists[id]; ok && p.Name == name {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

// Tracks

func (t *tx) GetTrack(ctx context.Context, id uuid.UUID) (*entities.Track, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	if tr, ok := t.store.tracks[id]; ok {
		return tr.Clone(), nil
	}
	return nil, nil
}

func (t *tx) PutTrack(ctx context.Context, track *entities.Track) error {
	if err := t.check(true); err != nil {
		return err
	}
	prev, had := t.store.tracks[track.ID]
	t.undo = append(t.undo, func() {
		if had {
			t.store.tracks[track.ID] = prev
			t.store.indexTrack(prev)
		} else {
			if cur, ok := t.store.tracks[track.ID]; ok {
				t.store.unindexTrack(cur)
			}
			delete(t.store.tracks, track.ID)
		}
	})
	if had {
		t.store.unindexTrack(prev)
	}
	clone := track.Clone()
	t.store.tracks[clone.ID] = clone
	t.store.indexTrack(clone)
	return nil
}

func (t *tx) DeleteTrack(ctx context.Context, id uuid.UUID) error {
	if err := t.check(true); err != nil {
		return err
	}
	prev, had := t.store.tracks[id]
	if !had {
		return nil
	}
	t.undo = append(t.undo, func() {
		t.store.tracks[id] = prev
		t.store.indexTrack(prev)
	})
	t.store.unindexTrack(prev)
	delete(t.store.tracks, id)
	return nil
}

func (t *tx) ListTracksByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]*entities.Track, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	return t.store.sortedTracks(playlistID), nil
}

func (t *tx) DeleteTracksByPlaylist(ctx context.Context, playlistID uuid.UUID) error {
	if err := t.check(true); err != nil {
		return err
	}
	for id := range t.store.tracksByPlaylist[playlistID] {
		if err := t.DeleteTrack(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
