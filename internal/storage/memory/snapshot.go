package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
)

// snapshot is the on-disk form of the whole arena
type snapshot struct {
	Guilds    []*entities.Guild        `json:"guilds"`
	Members   []*entities.Member       `json:"members"`
	Settings  []*entities.UserSettings `json:"settings"`
	Playlists []*entities.Playlist     `json:"playlists"`
	Tracks    []*entities.Track        `json:"tracks"`
}

// SaveSnapshot writes the whole arena to a JSON file with an atomic write.
// The previous snapshot, when present, is kept as a .backup file.
func (s *Store) SaveSnapshot(path string) error {
	s.mu.RLock()
	snap := snapshot{
		Guilds:    make([]*entities.Guild, 0, len(s.guilds)),
		Members:   make([]*entities.Member, 0, len(s.members)),
		Settings:  make([]*entities.UserSettings, 0, len(s.settings)),
		Playlists: make([]*entities.Playlist, 0, len(s.playlists)),
		Tracks:    make([]*entities.Track, 0, len(s.tracks)),
	}
	for _, g := range s.guilds {
		snap.Guilds = append(snap.Guilds, g.Clone())
	}
	for _, m := range s.members {
		snap.Members = append(snap.Members, m.Clone())
	}
	for _, st := range s.settings {
		snap.Settings = append(snap.Settings, st.Clone())
	}
	for _, p := range s.playlists {
		snap.Playlists = append(snap.Playlists, p.Clone())
	}
	for _, t := range s.tracks {
		snap.Tracks = append(snap.Tracks, t.Clone())
	}
	s.mu.RUnlock()

	// Create backup if file exists
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".backup"); err != nil {
			fmt.Printf("Warning: could not create backup: %v\n", err)
		}
	}

	// Atomic write using temp file
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Rename for atomicity
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// LoadSnapshot replaces the arena contents with the snapshot at path.
// A missing file is not an error; the store stays empty.
func (s *Store) LoadSnapshot(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	var snap snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.guilds = make(map[int64]*entities.Guild, len(snap.Guilds))
	s.members = make(map[int64]*entities.Member, len(snap.Members))
	s.settings = make(map[int64]*entities.UserSettings, len(snap.Settings))
	s.playlists = make(map[uuid.UUID]*entities.Playlist, len(snap.Playlists))
	s.tracks = make(map[uuid.UUID]*entities.Track, len(snap.Tracks))
	s.playlistsByOwner = make(map[int64]map[uuid.UUID]struct{})
	s.tracksByPlaylist = make(map[uuid.UUID]map[uuid.UUID]struct{})

	for _, g := range snap.Guilds {
		s.guilds[g.ID] = g
	}
	for _, m := range snap.Members {
		s.members[m.ID] = m
	}
	for _, st := range snap.Settings {
		s.settings[st.UserID] = st
	}
	for _, p := range snap.Playlists {
		s.playlists[p.ID] = p
		s.indexPlaylist(p)
	}
	for _, t := range snap.Tracks {
		s.tracks[t.ID] = t
		s.indexTrack(t)
	}

	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}
