package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
	"github.com/jackc/pgx/v5"
)

type tx struct {
	tx pgx.Tx
}

func (t *tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// Guilds

func (t *tx) GetGuild(ctx context.Context, id int64) (*entities.Guild, error) {
	var g entities.Guild
	err := t.tx.QueryRow(ctx,
		`SELECT id, last_channel_id FROM guilds WHERE id = $1`, id).
		Scan(&g.ID, &g.LastChannelID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}
	return &g, nil
}

func (t *tx) PutGuild(ctx context.Context, guild *entities.Guild) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO guilds (id, last_channel_id) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET last_channel_id = EXCLUDED.last_channel_id`,
		guild.ID, guild.LastChannelID)
	if err != nil {
		return fmt.Errorf("failed to upsert guild: %w", err)
	}
	return nil
}

// Members

func (t *tx) GetMember(ctx context.Context, id int64) (*entities.Member, error) {
	var m entities.Member
	err := t.tx.QueryRow(ctx, `SELECT id FROM members WHERE id = $1`, id).Scan(&m.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

func (t *tx) PutMember(ctx context.Context, member *entities.Member) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO members (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, member.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}

func (t *tx) DeleteMember(ctx context.Context, id int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

// Settings

func (t *tx) GetSettings(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	var s entities.UserSettings
	err := t.tx.QueryRow(ctx,
		`SELECT user_id, volume, filters, autoplay, last_updated
		 FROM user_settings WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.Volume, &s.Filters, &s.Autoplay, &s.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

func (t *tx) PutSettings(ctx context.Context, settings *entities.UserSettings) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO user_settings (user_id, volume, filters, autoplay, last_updated)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		   volume = EXCLUDED.volume,
		   filters = EXCLUDED.filters,
		   autoplay = EXCLUDED.autoplay,
		   last_updated = EXCLUDED.last_updated`,
		settings.UserID, settings.Volume, settings.Filters,
		settings.Autoplay.String(), settings.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

func (t *tx) DeleteSettings(ctx context.Context, userID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM user_settings WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}

// Playlists

const playlistColumns = `id, user_id, name, created_at, updated_at, is_public`

func scanPlaylist(row pgx.Row) (*entities.Playlist, error) {
	var p entities.Playlist
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.IsPublic)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}
	return &p, nil
}

func (t *tx) GetPlaylist(ctx context.Context, id uuid.UUID) (*entities.Playlist, error) {
	return scanPlaylist(t.tx.QueryRow(ctx,
		`SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id))
}

func (t *tx) PutPlaylist(ctx context.Context, playlist *entities.Playlist) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO playlists (id, user_id, name, created_at, updated_at, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   updated_at = EXCLUDED.updated_at,
		   is_public = EXCLUDED.is_public`,
		playlist.ID, playlist.UserID, playlist.Name,
		playlist.CreatedAt, playlist.UpdatedAt, playlist.IsPublic)
	if err != nil {
		return fmt.Errorf("failed to upsert playlist: %w", err)
	}
	return nil
}

func (t *tx) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return nil
}

func (t *tx) ListPlaylistsByOwner(ctx context.Context, userID int64) ([]*entities.Playlist, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+playlistColumns+` FROM playlists
		 WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]*entities.Playlist, 0)
	for rows.Next() {
		var p entities.Playlist
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.IsPublic); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, &p)
	}
	return playlists, rows.Err()
}

func (t *tx) FindPlaylistByName(ctx context.Context, userID int64, name string) (*entities.Playlist, error) {
	return scanPlaylist(t.tx.QueryRow(ctx,
		`SELECT `+playlistColumns+` FROM playlists WHERE user_id = $1 AND name = $2`,
		userID, name))
}

// Tracks

const trackColumns = `id, playlist_id, url, title, artist, duration, added_at, position`

func (t *tx) GetTrack(ctx context.Context, id uuid.UUID) (*entities.Track, error) {
	var tr entities.Track
	err := t.tx.QueryRow(ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE id = $1`, id).
		Scan(&tr.ID, &tr.PlaylistID, &tr.URL, &tr.Title, &tr.Artist,
			&tr.Duration, &tr.AddedAt, &tr.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return &tr, nil
}

func (t *tx) PutTrack(ctx context.Context, track *entities.Track) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO tracks (id, playlist_id, url, title, artist, duration, added_at, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   url = EXCLUDED.url,
		   title = EXCLUDED.title,
		   artist = EXCLUDED.artist,
		   duration = EXCLUDED.duration,
		   position = EXCLUDED.position`,
		track.ID, track.PlaylistID, track.URL, track.Title, track.Artist,
		track.Duration, track.AddedAt, track.Position)
	if err != nil {
		return fmt.Errorf("failed to upsert track: %w", err)
	}
	return nil
}

func (t *tx) DeleteTrack(ctx context.Context, id uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM tracks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	return nil
}

func (t *tx) ListTracksByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]*entities.Track, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+trackColumns+` FROM tracks
		 WHERE playlist_id = $1 ORDER BY position`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]*entities.Track, 0)
	for rows.Next() {
		var tr entities.Track
		if err := rows.Scan(&tr.ID, &tr.PlaylistID, &tr.URL, &tr.Title, &tr.Artist,
			&tr.Duration, &tr.AddedAt, &tr.Position); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, &tr)
	}
	return tracks, rows.Err()
}

func (t *tx) DeleteTracksByPlaylist(ctx context.Context, playlistID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM tracks WHERE playlist_id = $1`, playlistID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist tracks: %w", err)
	}
	return nil
}
