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

// PlaylistService manages playlist ownership and metadata
type PlaylistService struct {
	coord  *Coordinator
	logger *logger.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewPlaylistService creates a new playlist service
func NewPlaylistService(coord *Coordinator, log *logger.Logger) *PlaylistService {
	return &PlaylistService{
		coord:  coord,
		logger: log,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// CreatePlaylist creates a new empty playlist owned by the member. Names
// are unique per owner.
func (s *PlaylistService) CreatePlaylist(ctx context.Context, userID int64, name string, isPublic bool) (*entities.Playlist, error) {
	name = validation.SanitizeInput(name)
	if err := validation.ValidatePlaylistName(name); err != nil {
		return nil, err
	}

	var playlist *entities.Playlist
	err := s.coord.Update(ctx, func(tx repositories.Tx) error {
		member, err := tx.GetMember(ctx, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return apperrors.ErrMemberNotFound
		}

		existing, err := tx.FindPlaylistByName(ctx, userID, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.ErrPlaylistExists
		}

		playlist = entities.NewPlaylist(s.newID(), userID, name, isPublic, s.now())
		return tx.PutPlaylist(ctx, playlist)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("name", name).Info("Playlist created")
	return playlist, nil
}

// RenamePlaylist changes a playlist's name and bumps its updated_at
func (s *PlaylistService) RenamePlaylist(ctx context.Context, id uuid.UUID, name string) error {
	name = validation.SanitizeInput(name)
	if err := validation.ValidatePlaylistName(name); err != nil {
		return err
	}

	return s.coord.Update(ctx, func(tx repositories.Tx) error {
		playlist, err := tx.GetPlaylist(ctx, id)
		if err != nil {
			return err
		}
		if playlist == nil {
			return apperrors.ErrPlaylistNotFound
		}

		if playlist.Name != name {
			other, err := tx.FindPlaylistByName(ctx, playlist.UserID, name)
			if err != nil {
				return err
			}
			if other != nil {
				return apperrors.ErrPlaylistExists
			}
		}

		playlist.Name = name
		playlist.Touch(s.now())
		return tx.PutPlaylist(ctx, playlist)
	})
}

// SetVisibility flips the is_public flag and bumps updated_at
func (s *PlaylistService) SetVisibility(ctx context.Context, id uuid.UUID, isPublic bool) error {
	return s.coord.Update(ctx, func(tx repositories.Tx) error {
		playlist, err := tx.GetPlaylist(ctx, id)
		if err != nil {
			return err
		}
		if playlist == nil {
			return apperrors.ErrPlaylistNotFound
		}
		playlist.IsPublic = isPublic
		playlist.Touch(s.now())
		return tx.PutPlaylist(ctx, playlist)
	})
}

// DeletePlaylist removes a playlist and all of its tracks. Deleting an
// unknown playlist is a silent no-op.
func (s *PlaylistService) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	return s.coord.WithPlaylist(ctx, id, func(tx repositories.Tx) error {
		playlist, err := tx.GetPlaylist(ctx, id)
		if err != nil {
			return err
		}
		if playlist == nil {
			return nil
		}
		if err := tx.DeleteTracksByPlaylist(ctx, id); err != nil {
			return err
		}
		return tx.DeletePlaylist(ctx, id)
	})
}

// ListPlaylists returns the member's playlists ordered by creation time.
// An unknown member simply has no playlists.
func (s *PlaylistService) ListPlaylists(ctx context.Context, userID int64) ([]*entities.Playlist, error) {
	var playlists []*entities.Playlist
	err := s.coord.View(ctx, func(tx repositories.Tx) error {
		var err error
		playlists, err = tx.ListPlaylistsByOwner(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return playlists, nil
}

// GetPlaylist loads a playlist by id
func (s *PlaylistService) GetPlaylist(ctx context.Context, id uuid.UUID) (*entities.Playlist, error) {
	var playlist *entities.Playlist
	err := s.coord.View(ctx, func(tx repositories.Tx) error {
		var err error
		playlist, err = tx.GetPlaylist(ctx, id)
		if err != nil {
			return err
		}
		if playlist == nil {
			return apperrors.ErrPlaylistNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}
