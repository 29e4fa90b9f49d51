package backend

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

// StartSession opens a detection session and makes it the active one.
func (c *Client) StartSession(ctx context.Context) (*domain.Session, error) {
	env, err := c.post(ctx, "/api/sessions/start", nil)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	sess, err := decodeField[domain.Session](env, "session", "data")
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	if env.success() {
		c.state.SetSession(&sess)
	}
	return &sess, nil
}

// EndSession closes the active session. Without one it does nothing.
func (c *Client) EndSession(ctx context.Context) error {
	sess := c.state.Session()
	if sess == nil {
		return nil
	}

	env, err := c.post(ctx, "/api/sessions/"+pathID(sess.ID)+"/end", nil)
	if err != nil {
		return fmt.Errorf("end session %s: %w", sess.ID, err)
	}
	if env.success() {
		c.state.SetSession(nil)
	}
	return nil
}

// SaveEmotionSnapshot uploads one snapshot tied to the active session and
// returns what was sent. Without an active session it returns (nil, nil)
// and makes no request.
func (c *Client) SaveEmotionSnapshot(ctx context.Context, face domain.FaceData) (*domain.Snapshot, error) {
	sess := c.state.Session()
	if sess == nil {
		c.logger.Warn("no active session for saving emotion data")
		return nil, nil
	}

	snap := domain.NewSnapshot(sess.ID.String(), c.now(), face)
	if _, err := c.post(ctx, "/api/emotions/snapshot", snap); err != nil {
		return nil, fmt.Errorf("save emotion snapshot: %w", err)
	}
	return &snap, nil
}
