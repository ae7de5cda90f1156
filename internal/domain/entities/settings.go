package entities

import (
	"time"

	"github.com/j3rr7/MusicBotRewrite/internal/domain/valueobjects"
)

// Default playback settings applied when a member has never written any.
const (
	DefaultVolume  = 100
	DefaultFilters = ""
)

// UserSettings holds per-member playback settings. Exactly one row per
// member; removed together with the member.
type UserSettings struct {
	UserID      int64                     `json:"user_id"`
	Volume      int                       `json:"volume"`
	Filters     string                    `json:"filters"`
	Autoplay    valueobjects.AutoplayMode `json:"autoplay"`
	LastUpdated time.Time                 `json:"last_updated"`
}

// DefaultSettings returns the settings a member has before their first write.
// The returned value is not persisted.
func DefaultSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:   userID,
		Volume:   DefaultVolume,
		Filters:  DefaultFilters,
		Autoplay: valueobjects.AutoplayDisabled,
	}
}

// Clone returns a copy
func (s *UserSettings) Clone() *UserSettings {
	c := *s
	return &c
}
