package entities

import (
	"time"

	"github.com/google/uuid"
)

// Track represents one entry in a playlist. Position is an implementation
// detail of ordering: values are strictly increasing within a playlist but
// not contiguous, and carry no meaning beyond comparison.
type Track struct {
	ID         uuid.UUID `json:"id"`
	PlaylistID uuid.UUID `json:"playlist_id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Artist     *string   `json:"artist,omitempty"`
	Duration   *int64    `json:"duration,omitempty"` // seconds
	AddedAt    time.Time `json:"added_at"`
	Position   int       `json:"position"`
}

// TrackData carries the user-supplied fields for a new track. Artist and
// duration stay absent when not provided, never defaulted to a sentinel.
type TrackData struct {
	URL      string
	Title    string
	Artist   *string
	Duration *int64
}

// NewTrack creates a track from user-supplied data at the given position
func NewTrack(id, playlistID uuid.UUID, data TrackData, position int, now time.Time) *Track {
	t := &Track{
		ID:         id,
		PlaylistID: playlistID,
		URL:        data.URL,
		Title:      data.Title,
		AddedAt:    now,
		Position:   position,
	}
	if data.Artist != nil {
		v := *data.Artist
		t.Artist = &v
	}
	if data.Duration != nil {
		v := *data.Duration
		t.Duration = &v
	}
	return t
}

// DurationFormatted returns the duration as mm:ss, or 00:00 when absent
func (t *Track) DurationFormatted() string {
	if t.Duration == nil {
		return "00:00"
	}
	return formatSeconds(*t.Duration)
}

// Clone returns a deep copy
func (t *Track) Clone() *Track {
	c := *t
	if t.Artist != nil {
		v := *t.Artist
		c.Artist = &v
	}
	if t.Duration != nil {
		v := *t.Duration
		c.Duration = &v
	}
	return &c
}
