package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/repositories"
	apperrors "github.com/j3rr7/MusicBotRewrite/internal/errors"
	"github.com/j3rr7/MusicBotRewrite/internal/services"
	"github.com/j3rr7/MusicBotRewrite/internal/storage/memory"
	"github.com/j3rr7/MusicBotRewrite/pkg/logger"
)

// newTimedLibrary builds the harness with an explicit lock wait, for tests
// that exercise the timeout path.
func newTimedLibrary(t *testing.T, lockWait time.Duration) *testLibrary {
	t.Helper()
	log := logger.Discard()
	coord := services.NewCoordinator(memory.New(), lockWait, log)
	return &testLibrary{
		identity:  services.NewIdentityService(coord, log),
		settings:  services.NewSettingsService(coord, log),
		playlists: services.NewPlaylistService(coord, log),
		tracks:    services.NewTrackService(coord, log),
		coord:     coord,
	}
}

func TestConcurrentInsertsStaySerialized(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	playlist := seedPlaylist(t, lib, 1, "queue")

	lib.tracks.AppendTrack(ctx, playlist.ID, trackData("A", "https://youtu.be/A"))
	lib.tracks.AppendTrack(ctx, playlist.ID, trackData("B", "https://youtu.be/B"))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			title := fmt.Sprintf("w%d", i)
			_, errs[i] = lib.tracks.InsertTrackAt(ctx, playlist.ID, 1, trackData(title, "https://youtu.be/"+title))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Worker %d failed: %v", i, err)
		}
	}

	tracks, err := lib.tracks.ListTracks(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("ListTracks failed: %v", err)
	}
	if len(tracks) != workers+2 {
		t.Fatalf("Expected %d tracks, got %d", workers+2, len(tracks))
	}
	seen := make(map[int]string)
	for i, tr := range tracks {
		if prev, ok := seen[tr.Position]; ok {
			t.Fatalf("Position %d held by both %s and %s", tr.Position, prev, tr.Title)
		}
		seen[tr.Position] = tr.Title
		if i > 0 && tracks[i-1].Position >= tr.Position {
			t.Fatalf("Positions not strictly increasing: %d then %d",
				tracks[i-1].Position, tr.Position)
		}
	}
	if tracks[0].Title != "A" || tracks[len(tracks)-1].Title != "B" {
		t.Errorf("Boundary tracks moved: first %s, last %s",
			tracks[0].Title, tracks[len(tracks)-1].Title)
	}
}

func TestDistinctPlaylistsProceedConcurrently(t *testing.T) {
	lib := newTimedLibrary(t, 100*time.Millisecond)
	ctx := context.Background()
	first := seedPlaylist(t, lib, 1, "first")
	second := seedPlaylist(t, lib, 2, "second")

	const rounds = 20
	var wg sync.WaitGroup
	var firstErr, secondErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if _, err := lib.tracks.AppendTrack(ctx, first.ID, trackData(fmt.Sprintf("f%d", i), "https://youtu.be/f")); err != nil {
				firstErr = err
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if _, err := lib.tracks.AppendTrack(ctx, second.ID, trackData(fmt.Sprintf("s%d", i), "https://youtu.be/s")); err != nil {
				secondErr = err
				return
			}
		}
	}()
	wg.Wait()

	if firstErr != nil || secondErr != nil {
		t.Fatalf("Distinct playlists should never conflict: %v / %v", firstErr, secondErr)
	}
	for _, pl := range []uuid.UUID{first.ID, second.ID} {
		tracks, err := lib.tracks.ListTracks(ctx, pl)
		if err != nil || len(tracks) != rounds {
			t.Errorf("Expected %d tracks, got %d (err %v)", rounds, len(tracks), err)
		}
	}
}

func TestLockTimeoutSurfacesConflict(t *testing.T) {
	lib := newTimedLibrary(t, 30*time.Millisecond)
	ctx := context.Background()
	playlist := seedPlaylist(t, lib, 1, "queue")

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- lib.coord.WithPlaylist(ctx, playlist.ID, func(tx repositories.Tx) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	// Both the initial attempt and the single retry time out
	_, err := lib.tracks.AppendTrack(ctx, playlist.ID, trackData("late", "https://youtu.be/l"))
	if !apperrors.Is(err, apperrors.ErrConflict) {
		t.Errorf("Expected a conflict, got %v", err)
	}
	if !apperrors.Is(err, apperrors.ErrLockTimeout) {
		t.Errorf("Expected a lock timeout, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Lock holder failed: %v", err)
	}
}

func TestLockTimeoutRetrySucceeds(t *testing.T) {
	lib := newTimedLibrary(t, 200*time.Millisecond)
	ctx := context.Background()
	playlist := seedPlaylist(t, lib, 1, "queue")

	entered := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- lib.coord.WithPlaylist(ctx, playlist.ID, func(tx repositories.Tx) error {
			close(entered)
			// Longer than one lock wait, shorter than two: the first
			// acquire times out, the retry gets through
			time.Sleep(300 * time.Millisecond)
			return nil
		})
	}()
	<-entered

	if _, err := lib.tracks.AppendTrack(ctx, playlist.ID, trackData("patient", "https://youtu.be/p")); err != nil {
		t.Errorf("Retry should have acquired the freed lock, got %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Lock holder failed: %v", err)
	}
}

func TestCanceledContextAbortsAcquire(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	playlist := seedPlaylist(t, lib, 1, "queue")

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- lib.coord.WithPlaylist(ctx, playlist.ID, func(tx repositories.Tx) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	canceled, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := lib.coord.WithPlaylist(canceled, playlist.ID, func(tx repositories.Tx) error { return nil })
	if !apperrors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Lock holder failed: %v", err)
	}
}

func TestFailingMutationLeavesNoTrace(t *testing.T) {
	lib := newTestLibrary(t)
	ctx := context.Background()
	playlist := seedPlaylist(t, lib, 1, "queue")

	boom := fmt.Errorf("storage gave out")
	err := lib.coord.WithPlaylist(ctx, playlist.ID, func(tx repositories.Tx) error {
		got, err := tx.GetPlaylist(ctx, playlist.ID)
		if err != nil {
			return err
		}
		got.Name = "half-renamed"
		if err := tx.PutPlaylist(ctx, got); err != nil {
			return err
		}
		return boom
	})
	if !apperrors.Is(err, boom) {
		t.Fatalf("Expected the injected error, got %v", err)
	}

	got, err := lib.playlists.GetPlaylist(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("GetPlaylist failed: %v", err)
	}
	if got.Name != "queue" {
		t.Errorf("Aborted write leaked: name is %q", got.Name)
	}
}
