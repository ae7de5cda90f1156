package services

import (
	"context"
	"time"

	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/repositories"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/valueobjects"
	apperrors "github.com/j3rr7/MusicBotRewrite/internal/errors"
	"github.com/j3rr7/MusicBotRewrite/internal/validation"
	"github.com/j3rr7/MusicBotRewrite/pkg/logger"
)

// SettingsUpdate carries a partial settings change. Nil fields stay
// untouched.
type SettingsUpdate struct {
	Volume   *int
	Filters  *string
	Autoplay *valueobjects.AutoplayMode
}

// SettingsService manages per-member playback settings
type SettingsService struct {
	coord  *Coordinator
	logger *logger.Logger
	now    func() time.Time
}

// NewSettingsService creates a new settings service
func NewSettingsService(coord *Coordinator, log *logger.Logger) *SettingsService {
	return &SettingsService{coord: coord, logger: log, now: time.Now}
}

// GetSettings returns the member's settings, or the defaults (volume 100,
// no filters, autoplay disabled) when the member has never written any.
// Defaults are not persisted until the first update.
func (s *SettingsService) GetSettings(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	var settings *entities.UserSettings
	err := s.coord.View(ctx, func(tx repositories.Tx) error {
		member, err := tx.GetMember(ctx, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return apperrors.ErrMemberNotFound
		}
		settings, err = tx.GetSettings(ctx, userID)
		if err != nil {
			return err
		}
		if settings == nil {
			settings = entities.DefaultSettings(userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettings applies a partial update. Volume outside [0, 1000] is
// rejected, never clamped. LastUpdated is set on success.
func (s *SettingsService) UpdateSettings(ctx context.Context, userID int64, update SettingsUpdate) (*entities.UserSettings, error) {
	if update.Volume != nil {
		if err := validation.ValidateVolume(*update.Volume); err != nil {
			return nil, err
		}
	}
	if update.Autoplay != nil && !update.Autoplay.IsValid() {
		return nil, apperrors.ErrInvalidAutoplay
	}

	var settings *entities.UserSettings
	err := s.coord.Update(ctx, func(tx repositories.Tx) error {
		member, err := tx.GetMember(ctx, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return apperrors.ErrMemberNotFound
		}

		settings, err = tx.GetSettings(ctx, userID)
		if err != nil {
			return err
		}
		if settings == nil {
			settings = entities.DefaultSettings(userID)
		}

		if update.Volume != nil {
			settings.Volume = *update.Volume
		}
		if update.Filters != nil {
			settings.Filters = *update.Filters
		}
		if update.Autoplay != nil {
			settings.Autoplay = *update.Autoplay
		}
		settings.LastUpdated = s.now()

		return tx.PutSettings(ctx, settings)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", userID).Debug("Settings updated")
	return settings, nil
}
