package backend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

// Recorder mirrors a local detection run into a backend session. Start
// authenticates (reusing a stored token, else as a guest) and opens a
// session; while it runs, the latest face is auto-saved and the first one
// fills in the user's missing age and gender. Stop ends the session.
type Recorder struct {
	client *Client
	saver  *AutoSaver
	supply FaceDataFunc

	ctx     context.Context
	updated atomic.Bool
	pending sync.WaitGroup
}

func NewRecorder(client *Client, interval time.Duration, supply FaceDataFunc) *Recorder {
	r := &Recorder{
		client: client,
		supply: supply,
		ctx:    context.Background(),
	}
	r.saver = NewAutoSaver(client, interval, r.next)
	return r
}

func (r *Recorder) Start(ctx context.Context) error {
	if err := r.authenticate(ctx); err != nil {
		return err
	}
	sess, err := r.client.StartSession(ctx)
	if err != nil {
		return err
	}
	if r.client.State().Session() == nil {
		return fmt.Errorf("start session: %w", domain.ErrApplication.WithMessage("backend refused the session", 0))
	}

	r.ctx = ctx
	r.saver.Start(ctx)
	r.client.logger.Info("backend session started", "session_id", sess.ID)
	return nil
}

// Stop halts auto-saving and ends the backend session.
func (r *Recorder) Stop(ctx context.Context) error {
	r.saver.Stop()
	r.pending.Wait()
	return r.client.EndSession(ctx)
}

func (r *Recorder) authenticate(ctx context.Context) error {
	if r.client.State().Token() != "" {
		if _, err := r.client.GetCurrentUser(ctx); err == nil {
			return nil
		}
	}

	res, err := r.client.LoginAsGuest(ctx)
	if err != nil {
		return err
	}
	if res.Token == "" {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// next feeds the auto-saver. The first face seen is also used once to
// complete the user profile.
func (r *Recorder) next() (domain.FaceData, bool) {
	data, ok := r.supply()
	if !ok {
		return data, false
	}

	if r.updated.CompareAndSwap(false, true) {
		r.pending.Add(1)
		go func() {
			defer r.pending.Done()
			if err := r.client.UpdateUserFromFace(r.ctx, data); err != nil {
				r.client.logger.Warn("failed to update user from face", "error", err)
			}
		}()
	}
	return data, true
}
