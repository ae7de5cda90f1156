package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/repositories"
	apperrors "github.com/j3rr7/MusicBotRewrite/internal/errors"
	"github.com/j3rr7/MusicBotRewrite/internal/validation"
	"github.com/j3rr7/MusicBotRewrite/pkg/logger"
)

// positionStride is the spacing between track positions. New tracks land a
// full stride apart so later insertions can take the midpoint without
// touching their neighbors; a renumber restores this spacing once a gap is
// exhausted.
const positionStride = 1000

// TrackService maintains the ordered track sequence of each playlist.
// Order is encoded in integer positions that are strictly increasing but
// not contiguous; positions mean nothing to callers beyond comparison.
// Every structural mutation runs under the coordinator's playlist lock.
type TrackService struct {
	coord  *Coordinator
	logger *logger.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewTrackService creates a new track service
func NewTrackService(coord *Coordinator, log *logger.Logger) *TrackService {
	return &TrackService{
		coord:  coord,
		logger: log,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// AppendTrack adds a track at the end of the playlist
func (s *TrackService) AppendTrack(ctx context.Context, playlistID uuid.UUID, data entities.TrackData) (*entities.Track, error) {
	if err := validation.ValidateTrack(data.URL, data.Title, data.Duration); err != nil {
		return nil, err
	}

	var track *entities.Track
	err := s.coord.WithPlaylist(ctx, playlistID, func(tx repositories.Tx) error {
		playlist, err := tx.GetPlaylist(ctx, playlistID)
		if err != nil {
			return err
		}
		if playlist == nil {
			return apperrors.ErrPlaylistNotFound
		}

		tracks, err := tx.ListTracksByPlaylist(ctx, playlistID)
		if err != nil {
			return err
		}

		now := s.now()
		track = entities.NewTrack(s.newID(), playlistID, data, appendPosition(tracks), now)
		if err := tx.PutTrack(ctx, track); err != nil {
			return err
		}

		playlist.Touch(now)
		return tx.PutPlaylist(ctx, playlist)
	})
	if err != nil {
		return nil, err
	}
	return track, nil
}

// InsertTrackAt adds a track at the given index. The index is clamped to
// [0, length]; inserting at length behaves as an append. The new position
// is the midpoint between the neighbors; when they are adjacent integers
// the whole playlist is renumbered first, inside the same transaction.
func (s *TrackService) InsertTrackAt(ctx context.Context, playlistID uuid.UUID, index int, data entities.TrackData) (*entities.Track, error) {
	if err := validation.ValidateTrack(data.URL, data.Title, data.Duration); err != nil {
		return nil, err
	}

	var track *entities.Track
	err := s.coord.WithPlaylist(ctx, playlistID, func(tx repositories.Tx) error {
		playlist, err := tx.GetPlaylist(ctx, playlistID)
		if err != nil {
			return err
		}
		if playlist == nil {
			return apperrors.ErrPlaylistNotFound
		}

		tracks, err := tx.ListTracksByPlaylist(ctx, playlistID)
		if err != nil {
			return err
		}

		if index < 0 {
			index = 0
		}
		if index > len(tracks) {
			index = len(tracks)
		}

		var position int
		if index == len(tracks) {
			// Covers the empty playlist as well
			position = appendPosition(tracks)
		} else {
			lo, hi := neighborPositions(tracks, index)
			if hi-lo < 2 {
				if err := s.renumber(ctx, tx, tracks); err != nil {
					return err
				}
				lo, hi = neighborPositions(tracks, index)
			}
			position = lo + (hi-lo)/2
		}

		now := s.now()
		track = entities.NewTrack(s.newID(), playlistID, data, position, now)
		if err := tx.PutTrack(ctx, track); err != nil {
			return err
		}

		playlist.Touch(now)
		return tx.PutPlaylist(ctx, playlist)
	})
	if err != nil {
		return nil, err
	}
	return track, nil
}

// RemoveTrack deletes a track. Siblings keep their positions; the gap left
// behind is harmless. Removing an unknown track is a silent no-op.
func (s *TrackService) RemoveTrack(ctx context.Context, trackID uuid.UUID) error {
	playlistID, ok, err := s.findTrackPlaylist(ctx, trackID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	return s.coord.WithPlaylist(ctx, playlistID, func(tx repositories.Tx) error {
		// Re-check under the lock; a concurrent delete may have won
		track, err := tx.GetTrack(ctx, trackID)
		if err != nil {
			return err
		}
		if track == nil {
			return nil
		}

		playlist, err := tx.GetPlaylist(ctx, track.PlaylistID)
		if err != nil {
			return err
		}
		if playlist == nil {
			return apperrors.ErrOrphanedRow
		}

		if err := tx.DeleteTrack(ctx, trackID); err != nil {
			return err
		}

		playlist.Touch(s.now())
		return tx.PutPlaylist(ctx, playlist)
	})
}

// MoveTrack moves a track to a new index within its playlist as a single
// position reassignment: the track keeps its id and added_at.
func (s *TrackService) MoveTrack(ctx context.Context, trackID uuid.UUID, newIndex int) error {
	playlistID, ok, err := s.findTrackPlaylist(ctx, trackID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrTrackNotFound
	}

	return s.coord.WithPlaylist(ctx, playlistID, func(tx repositories.Tx) error {
		track, err := tx.GetTrack(ctx, trackID)
		if err != nil {
			return err
		}
		if track == nil {
			return apperrors.ErrTrackNotFound
		}

		playlist, err := tx.GetPlaylist(ctx, track.PlaylistID)
		if err != nil {
			return err
		}
		if playlist == nil {
			return apperrors.ErrOrphanedRow
		}

		tracks, err := tx.ListTracksByPlaylist(ctx, track.PlaylistID)
		if err != nil {
			return err
		}

		position, renumbered, err := s.movePosition(ctx, tx, tracks, trackID, newIndex)
		if err != nil {
			return err
		}
		if renumbered {
			// The moved track's own position changed during the renumber
			track, err = tx.GetTrack(ctx, trackID)
			if err != nil {
				return err
			}
		}

		track.Position = position
		if err := tx.PutTrack(ctx, track); err != nil {
			return err
		}

		playlist.Touch(s.now())
		return tx.PutPlaylist(ctx, playlist)
	})
}

// ListTracks returns the playlist's tracks ordered by position ascending.
// This is the authoritative read path for playlist order.
func (s *TrackService) ListTracks(ctx context.Context, playlistID uuid.UUID) ([]*entities.Track, error) {
	var tracks []*entities.Track
	err := s.coord.View(ctx, func(tx repositories.Tx) error {
		playlist, err := tx.GetPlaylist(ctx, playlistID)
		if err != nil {
			return err
		}
		if playlist == nil {
			return apperrors.ErrPlaylistNotFound
		}
		tracks, err = tx.ListTracksByPlaylist(ctx, playlistID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// findTrackPlaylist resolves which playlist a track belongs to, so the
// right lock can be taken before the mutation re-reads state.
func (s *TrackService) findTrackPlaylist(ctx context.Context, trackID uuid.UUID) (uuid.UUID, bool, error) {
	var playlistID uuid.UUID
	var found bool
	err := s.coord.View(ctx, func(tx repositories.Tx) error {
		track, err := tx.GetTrack(ctx, trackID)
		if err != nil {
			return err
		}
		if track != nil {
			playlistID = track.PlaylistID
			found = true
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	return playlistID, found, nil
}

// movePosition computes the new position for a track moved to newIndex.
// The target index counts positions in the sequence without the moved
// track, matching remove-then-insert semantics.
func (s *TrackService) movePosition(ctx context.Context, tx repositories.Tx, tracks []*entities.Track, trackID uuid.UUID, newIndex int) (int, bool, error) {
	others := withoutTrack(tracks, trackID)

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(others) {
		newIndex = len(others)
	}

	if newIndex == len(others) {
		return appendPosition(others), false, nil
	}

	lo, hi := neighborPositions(others, newIndex)
	if hi-lo < 2 {
		if err := s.renumber(ctx, tx, tracks); err != nil {
			return 0, false, err
		}
		others = withoutTrack(tracks, trackID)
		lo, hi = neighborPositions(others, newIndex)
		return lo + (hi-lo)/2, true, nil
	}
	return lo + (hi-lo)/2, false, nil
}

// renumber rewrites every position to (i+1)*stride in current order. Track
// identity and all other fields are untouched; the slice is updated in
// place so callers see the fresh positions.
func (s *TrackService) renumber(ctx context.Context, tx repositories.Tx, tracks []*entities.Track) error {
	for i, t := range tracks {
		want := (i + 1) * positionStride
		if t.Position == want {
			continue
		}
		t.Position = want
		if err := tx.PutTrack(ctx, t); err != nil {
			return err
		}
	}
	s.logger.WithField("tracks", len(tracks)).Debug("Renumbered playlist positions")
	return nil
}

// appendPosition is the position for a track added at the end
func appendPosition(tracks []*entities.Track) int {
	if len(tracks) == 0 {
		return positionStride
	}
	return tracks[len(tracks)-1].Position + positionStride
}

// neighborPositions returns the open interval around index: the position
// of the track before it (0 when inserting at the front) and the position
// of the track currently at index.
func neighborPositions(tracks []*entities.Track, index int) (lo, hi int) {
	if index > 0 {
		lo = tracks[index-1].Position
	}
	return lo, tracks[index].Position
}

func withoutTrack(tracks []*entities.Track, trackID uuid.UUID) []*entities.Track {
	out := make([]*entities.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ID != trackID {
			out = append(out, t)
		}
	}
	return out
}
