package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/repositories"
	apperrors "github.com/j3rr7/MusicBotRewrite/internal/errors"
	"github.com/j3rr7/MusicBotRewrite/pkg/logger"
)

// IdentityService manages guild and member records. Guilds and members are
// created on first interaction; deleting a member cascades to its settings
// and playlists through the coordinator.
type IdentityService struct {
	coord  *Coordinator
	logger *logger.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(coord *Coordinator, log *logger.Logger) *IdentityService {
	return &IdentityService{coord: coord, logger: log}
}

// EnsureGuild returns the guild record, creating it when absent
func (s *IdentityService) EnsureGuild(ctx context.Context, id int64) (*entities.Guild, error) {
	if id == 0 {
		return nil, apperrors.ErrInvalidID
	}

	var guild *entities.Guild
	err := s.coord.Update(ctx, func(tx repositories.Tx) error {
		existing, err := tx.GetGuild(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			guild = existing
			return nil
		}
		guild = entities.NewGuild(id)
		return tx.PutGuild(ctx, guild)
	})
	if err != nil {
		return nil, err
	}
	return guild, nil
}

// SetLastChannel records the bot's active channel for a guild, creating the
// guild record when absent
func (s *IdentityService) SetLastChannel(ctx context.Context, guildID int64, channelID *int64) error {
	if guildID == 0 {
		return apperrors.ErrInvalidID
	}

	return s.coord.Update(ctx, func(tx repositories.Tx) error {
		guild, err := tx.GetGuild(ctx, guildID)
		if err != nil {
			return err
		}
		if guild == nil {
			guild = entities.NewGuild(guildID)
		}
		guild.LastChannelID = channelID
		return tx.PutGuild(ctx, guild)
	})
}

// EnsureMember returns the member record, creating it when absent
func (s *IdentityService) EnsureMember(ctx context.Context, id int64) (*entities.Member, error) {
	if id == 0 {
		return nil, apperrors.ErrInvalidID
	}

	var member *entities.Member
	err := s.coord.Update(ctx, func(tx repositories.Tx) error {
		existing, err := tx.GetMember(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			member = existing
			return nil
		}
		member = entities.NewMember(id)
		return tx.PutMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteMember removes a member together with its settings and all of its
// playlists and their tracks, in a single transaction. Deleting an unknown
// member is a silent no-op.
func (s *IdentityService) DeleteMember(ctx context.Context, id int64) error {
	if id == 0 {
		return apperrors.ErrInvalidID
	}

	// Snapshot the owned playlist ids so their locks can be taken in a
	// stable order before the cascade runs.
	var playlistIDs []uuid.UUID
	err := s.coord.View(ctx, func(tx repositories.Tx) error {
		playlists, err := tx.ListPlaylistsByOwner(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range playlists {
			playlistIDs = append(playlistIDs, p.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = s.coord.WithPlaylists(ctx, playlistIDs, func(tx repositories.Tx) error {
		// Re-list inside the transaction: a playlist created between the
		// snapshot and the lock acquisition still belongs to the cascade.
		playlists, err := tx.ListPlaylistsByOwner(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range playlists {
			if err := tx.DeleteTracksByPlaylist(ctx, p.ID); err != nil {
				return err
			}
			if err := tx.DeletePlaylist(ctx, p.ID); err != nil {
				return err
			}
		}
		if err := tx.DeleteSettings(ctx, id); err != nil {
			return err
		}
		return tx.DeleteMember(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.WithField("user_id", id).Info("Member deleted")
	return nil
}
