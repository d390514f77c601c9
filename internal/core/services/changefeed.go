package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure ChangeFeed implements the interface.
var _ driving.ChangeFeed = (*ChangeFeed)(nil)

// subscriberBuffer is the per-subscriber queue length. Events for a full
// subscriber are dropped; clients only need to know that something changed.
const subscriberBuffer = 16

// ChangeFeed consumes watcher events, invalidates cached transcripts and
// fans events out to subscribers.
type ChangeFeed struct {
	watcher driven.ChangeWatcher
	cache   driven.TranscriptCache

	mu     sync.Mutex
	subs   map[int]chan domain.ChangeEvent
	nextID int
	closed bool
	wg     sync.WaitGroup
}

// NewChangeFeed creates a change feed. cache may be nil.
func NewChangeFeed(watcher driven.ChangeWatcher, cache driven.TranscriptCache) *ChangeFeed {
	return &ChangeFeed{
		watcher: watcher,
		cache:   cache,
		subs:    make(map[int]chan domain.ChangeEvent),
	}
}

// Start begins consuming watcher events until ctx is cancelled.
func (f *ChangeFeed) Start(ctx context.Context) error {
	events, err := f.watcher.Watch(ctx)
	if err != nil {
		return err
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer f.closeSubscribers()
		for event := range events {
			f.Publish(ctx, event)
		}
	}()
	return nil
}

// Publish invalidates the cache for event and delivers it to every subscriber.
func (f *ChangeFeed) Publish(ctx context.Context, event domain.ChangeEvent) {
	logger.Debug("Change: %s %s", event.Op, event.Path)

	if f.cache != nil {
		if event.Directory {
			f.cache.Purge(ctx)
		} else {
			f.cache.Invalidate(ctx, event.Path)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel; calling it more than once is safe.
func (f *ChangeFeed) Subscribe() (<-chan domain.ChangeEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan domain.ChangeEvent, subscriberBuffer)
	if f.closed {
		close(ch)
		return ch, func() {}
	}

	id := f.nextID
	f.nextID++
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if c, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(c)
			}
		})
	}
}

// Wait blocks until the watcher channel is drained after Start.
func (f *ChangeFeed) Wait() {
	f.wg.Wait()
}

func (f *ChangeFeed) closeSubscribers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
