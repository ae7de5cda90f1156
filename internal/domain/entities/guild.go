package entities

// Guild represents a Discord guild the bot has interacted with
type Guild struct {
	ID            int64  `json:"id"`
	LastChannelID *int64 `json:"last_channel_id,omitempty"`
}

// NewGuild creates a guild record with no active channel
func NewGuild(id int64) *Guild {
	return &Guild{ID: id}
}

// Clone returns a deep copy
func (g *Guild) Clone() *Guild {
	c := *g
	if g.LastChannelID != nil {
		v := *g.LastChannelID
		c.LastChannelID = &v
	}
	return &c
}
