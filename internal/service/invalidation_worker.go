package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InvalidationWorker listens for PostgreSQL NOTIFY on the 'field_changes'
// channel and batches cache invalidations. Repositories notify the affected
// video ids after value writes and composition changes; if 50 changes hit
// video X in 5 seconds, its cached field view is dropped once.
type InvalidationWorker struct {
	pool    *pgxpool.Pool
	cache   *CacheService
	batchMs time.Duration

	mu      sync.Mutex
	pending map[string]struct{} // video IDs waiting for invalidation
}

// NewInvalidationWorker creates a cache invalidation worker.
func NewInvalidationWorker(pool *pgxpool.Pool, cache *CacheService) *InvalidationWorker {
	return &InvalidationWorker{
		pool:    pool,
		cache:   cache,
		batchMs: 5 * time.Second,
		pending: make(map[string]struct{}),
	}
}

// Start begins listening for field_changes notifications and processing batches.
func (w *InvalidationWorker) Start(ctx context.Context) {
	log.Printf("invalidation-worker: starting (batch window=%s)", w.batchMs)

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("invalidation-worker: stopping (context cancelled)")
				return
			}
			log.Printf("invalidation-worker: listen error, reconnecting in 5s: %v", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Println("invalidation-worker: stopping (context cancelled)")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on field_changes,
// and collects notifications into batched windows.
func (w *InvalidationWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN field_changes")
	if err != nil {
		return err
	}
	log.Println("invalidation-worker: listening on field_changes")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		videoID := notification.Payload
		if videoID == "" {
			continue
		}

		w.mu.Lock()
		w.pending[videoID] = struct{}{}
		w.mu.Unlock()
	}
}

// flushLoop periodically drains the pending set and drops cache entries.
func (w *InvalidationWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchMs)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set and invalidates each video's cached view.
func (w *InvalidationWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	// Swap out the pending map
	batch := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	invalidated := 0
	for videoID := range batch {
		if err := w.cache.InvalidateVideoFields(ctx, videoID); err != nil {
			log.Printf("invalidation-worker: cache invalidate error for %s: %v", videoID, err)
			continue
		}
		invalidated++
	}

	if invalidated > 0 {
		log.Printf("invalidation-worker: batch complete, %d videos invalidated (from %d notifications)",
			invalidated, len(batch))
	}
}
