package source

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/midiaops/painel/internal/logging"
)

// CachedSource wraps a Source with a time-boxed staleness window. Repeated
// fetches inside the window return the cached snapshot; ForceRefresh always
// bypasses the cache. For local workbooks the cache can additionally be
// invalidated by filesystem write events, so an edit shows up on the next
// pass instead of waiting out the TTL.
type CachedSource struct {
	inner Source
	ttl   time.Duration
	log   *logging.Logger

	mu        sync.Mutex
	snapshot  *RawTable
	fetchedAt time.Time

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

// NewCachedSource wraps inner with the given staleness window.
// A TTL of 0 disables caching: every Fetch hits the inner source.
func NewCachedSource(inner Source, ttl time.Duration, log *logging.Logger) *CachedSource {
	if log == nil {
		log = logging.NopLogger()
	}
	return &CachedSource{
		inner: inner,
		ttl:   ttl,
		log:   log.WithComponent("cache"),
	}
}

// Fetch returns the cached snapshot if still fresh, otherwise delegates to
// the inner source. A failed fetch never evicts the cached snapshot.
func (c *CachedSource) Fetch(ctx context.Context) (*RawTable, error) {
	c.mu.Lock()
	if c.snapshot != nil && c.ttl > 0 && time.Since(c.fetchedAt) < c.ttl {
		snapshot := c.snapshot
		c.mu.Unlock()
		c.log.Debug("serving cached snapshot", "age", time.Since(c.fetchedAt).String())
		return snapshot, nil
	}
	c.mu.Unlock()

	return c.refresh(ctx)
}

// ForceRefresh bypasses the staleness window and fetches fresh data.
func (c *CachedSource) ForceRefresh(ctx context.Context) (*RawTable, error) {
	c.log.Debug("forced refresh requested")
	return c.refresh(ctx)
}

// Invalidate drops the cached snapshot so the next Fetch hits the source.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.fetchedAt = time.Time{}
}

// refresh fetches from the inner source and swaps the snapshot on success.
func (c *CachedSource) refresh(ctx context.Context) (*RawTable, error) {
	table, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = table
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return table, nil
}

// Watch invalidates the cache whenever the file at path is written or
// replaced. Editors that rename-over the file re-add the watch.
func (c *CachedSource) Watch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory rather than the file: saves that replace the file
	// would otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	c.watcher = watcher
	c.stopCh = make(chan struct{})
	target := filepath.Clean(path)

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					c.log.Debug("workbook changed on disk, invalidating cache", "event", event.Op.String())
					c.Invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.log.Warn("file watcher error", "error", err.Error())
			case <-c.stopCh:
				return
			}
		}
	}()

	return nil
}

// Close stops the file watcher, if one is running.
func (c *CachedSource) Close() error {
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}
