package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/repositories"
	apperrors "github.com/j3rr7/MusicBotRewrite/internal/errors"
	"github.com/j3rr7/MusicBotRewrite/pkg/logger"
)

// DefaultLockWait bounds how long a structural mutation waits for a
// playlist lock before surfacing a conflict.
const DefaultLockWait = 5 * time.Second

// Coordinator serializes structural mutations per playlist and gives every
// mutation all-or-nothing visibility through a store transaction. Mutations
// to different playlists proceed in parallel; two mutations to the same
// playlist never interleave.
type Coordinator struct {
	store    repositories.Store
	lockWait time.Duration
	logger   *logger.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*playlistLock
}

// playlistLock is a refcounted binary semaphore. The refcount tracks
// waiters so the entry can be dropped once nobody holds or wants it.
type playlistLock struct {
	sem  chan struct{}
	refs int
}

// NewCoordinator creates a coordinator over the given store
func NewCoordinator(store repositories.Store, lockWait time.Duration, log *logger.Logger) *Coordinator {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &Coordinator{
		store:    store,
		lockWait: lockWait,
		logger:   log,
		locks:    make(map[uuid.UUID]*playlistLock),
	}
}

// acquire takes the lock for one playlist, waiting at most lockWait.
func (c *Coordinator) acquire(ctx context.Context, id uuid.UUID) (*playlistLock, error) {
	c.mu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = &playlistLock{sem: make(chan struct{}, 1)}
		c.locks[id] = l
	}
	l.refs++
	c.mu.Unlock()

	timer := time.NewTimer(c.lockWait)
	defer timer.Stop()

	select {
	case l.sem <- struct{}{}:
		return l, nil
	case <-timer.C:
		c.unref(id, l)
		c.logger.WithField("playlist_id", id).Warn("Timed out waiting for playlist lock")
		return nil, apperrors.ErrLockTimeout
	case <-ctx.Done():
		c.unref(id, l)
		return nil, ctx.Err()
	}
}

func (c *Coordinator) release(id uuid.UUID, l *playlistLock) {
	<-l.sem
	c.unref(id, l)
}

func (c *Coordinator) unref(id uuid.UUID, l *playlistLock) {
	c.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(c.locks, id)
	}
	c.mu.Unlock()
}

// WithPlaylist runs fn inside a writable transaction while holding the
// playlist's lock. A lock timeout is retried once with a fresh snapshot
// before the conflict escapes to the caller.
func (c *Coordinator) WithPlaylist(ctx context.Context, id uuid.UUID, fn func(tx repositories.Tx) error) error {
	err := c.withPlaylists(ctx, []uuid.UUID{id}, fn)
	if apperrors.Is(err, apperrors.ErrLockTimeout) {
		err = c.withPlaylists(ctx, []uuid.UUID{id}, fn)
	}
	return err
}

// WithPlaylists runs fn while holding the locks of every listed playlist,
// for cascades spanning several playlists. Locks are taken in ascending id
// order so overlapping cascades cannot deadlock.
func (c *Coordinator) WithPlaylists(ctx context.Context, ids []uuid.UUID, fn func(tx repositories.Tx) error) error {
	err := c.withPlaylists(ctx, ids, fn)
	if apperrors.Is(err, apperrors.ErrLockTimeout) {
		err = c.withPlaylists(ctx, ids, fn)
	}
	return err
}

type heldLock struct {
	id   uuid.UUID
	lock *playlistLock
}

func (c *Coordinator) withPlaylists(ctx context.Context, ids []uuid.UUID, fn func(tx repositories.Tx) error) error {
	ordered := dedupeSorted(ids)

	var held []heldLock
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			c.release(held[i].id, held[i].lock)
		}
	}()

	for _, id := range ordered {
		l, err := c.acquire(ctx, id)
		if err != nil {
			return err
		}
		held = append(held, heldLock{id: id, lock: l})
	}

	return c.runTx(ctx, true, fn)
}

// Update runs fn in a writable transaction without playlist locks, for
// mutations that never touch a track sequence (guilds, members, settings,
// playlist metadata).
func (c *Coordinator) Update(ctx context.Context, fn func(tx repositories.Tx) error) error {
	return c.runTx(ctx, true, fn)
}

// View runs fn in a read-only transaction. Reads are never blocked by
// locks on unrelated playlists and observe a consistent snapshot.
func (c *Coordinator) View(ctx context.Context, fn func(tx repositories.Tx) error) error {
	return c.runTx(ctx, false, fn)
}

func (c *Coordinator) runTx(ctx context.Context, writable bool, fn func(tx repositories.Tx) error) error {
	tx, err := c.store.Begin(ctx, writable)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		if apperrors.Is(err, apperrors.ErrIntegrity) {
			c.logger.WithError(err).Error("Integrity violation, aborting transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func dedupeSorted(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
