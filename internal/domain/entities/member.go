package entities

// Member represents a Discord user known to the bot. Members are the
// ownership root for settings and playlists.
type Member struct {
	ID int64 `json:"id"`
}

// NewMember creates a member record
func NewMember(id int64) *Member {
	return &Member{ID: id}
}

// Clone returns a copy
func (m *Member) Clone() *Member {
	c := *m
	return &c
}
