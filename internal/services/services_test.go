package services_test

import (
	"testing"
	"time"

	"github.com/j3rr7/MusicBotRewrite/internal/domain/entities"
	"github.com/j3rr7/MusicBotRewrite/internal/services"
	"github.com/j3rr7/MusicBotRewrite/internal/storage/memory"
	"github.com/j3rr7/MusicBotRewrite/pkg/logger"
)

// testLibrary bundles the services over a fresh in-memory store
type testLibrary struct {
	identity  *services.IdentityService
	settings  *services.SettingsService
	playlists *services.PlaylistService
	tracks    *services.TrackService
	coord     *services.Coordinator
}

func newTestLibrary(t *testing.T) *testLibrary {
	t.Helper()
	log := logger.Discard()
	coord := services.NewCoordinator(memory.New(), time.Second, log)
	return &testLibrary{
		identity:  services.NewIdentityService(coord, log),
		settings:  services.NewSettingsService(coord, log),
		playlists: services.NewPlaylistService(coord, log),
		tracks:    services.NewTrackService(coord, log),
		coord:     coord,
	}
}

func settingsUpdate(volume *int, filters *string) services.SettingsUpdate {
	return services.SettingsUpdate{Volume: volume, Filters: filters}
}

func trackData(title, url string) entities.TrackData {
	return entities.TrackData{URL: url, Title: title}
}
