package entities

import (
	"time"

	"github.com/google/uuid"
)

// Playlist represents a saved collection of tracks owned by one member
type Playlist struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsPublic  bool      `json:"is_public"`
}

// NewPlaylist creates a new empty playlist
func NewPlaylist(id uuid.UUID, userID int64, name string, isPublic bool, now time.Time) *Playlist {
	return &Playlist{
		ID:        id,
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		IsPublic:  isPublic,
	}
}

// Touch bumps UpdatedAt. Called on any mutation of the playlist itself or
// its tracks, with the same clock reading used for the track's AddedAt so
// that UpdatedAt never trails a track's AddedAt.
func (p *Playlist) Touch(now time.Time) {
	p.UpdatedAt = now
}

// Clone returns a copy
func (p *Playlist) Clone() *Playlist {
	c := *p
	return &c
}
