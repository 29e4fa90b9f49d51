package backend

import (
	"context"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

const DefaultAutoSaveInterval = 5 * time.Second

// FaceDataFunc supplies the data to save on a tick; ok=false skips the tick.
type FaceDataFunc func() (data domain.FaceData, ok bool)

// AutoSaver periodically uploads a snapshot while the client has an active
// session. Saves are started in their own goroutine and may overlap when a
// request outlives the interval; each failure is logged and the loop goes on.
type AutoSaver struct {
	client   *Client
	interval time.Duration
	supply   FaceDataFunc

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	pending sync.WaitGroup
}

func NewAutoSaver(client *Client, interval time.Duration, supply FaceDataFunc) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}
	return &AutoSaver{
		client:   client,
		interval: interval,
		supply:   supply,
	}
}

// Start begins saving. Starting a running saver restarts it.
func (a *AutoSaver) Start(ctx context.Context) {
	a.Stop()

	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})

	go a.run(ctx, a.done)
}

// Stop ends the loop, cancels in-flight saves and waits for them.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	a.pending.Wait()
}

func (a *AutoSaver) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

func (a *AutoSaver) tick(ctx context.Context) {
	if a.client.State().Session() == nil {
		return
	}
	data, ok := a.supply()
	if !ok {
		return
	}

	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		if _, err := a.client.SaveEmotionSnapshot(ctx, data); err != nil {
			a.client.logger.Error("auto-save failed", "error", err)
			return
		}
		a.client.logger.Debug("auto-saved emotion data")
	}()
}
