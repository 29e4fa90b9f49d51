package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

func (c *Client) MessageHistory(ctx context.Context, messageID domain.ID) ([]domain.HistoryEntry, error) {
	return c.listHistory(ctx, "/api/history/message/"+pathID(messageID))
}

func (c *Client) UserHistory(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
	return c.listHistory(ctx, "/api/history/"+pathID(userID)+"/get")
}

func (c *Client) UpdateHistoryTimestamp(ctx context.Context, id domain.ID, ts time.Time) error {
	body := map[string]string{"timestamp": ts.UTC().Format(time.RFC3339)}
	if _, err := c.put(ctx, "/api/history/"+pathID(id)+"/timestamp", body); err != nil {
		return fmt.Errorf("update history %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteHistory(ctx context.Context, id domain.ID) error {
	if _, err := c.delete(ctx, "/api/history/"+pathID(id)); err != nil {
		return fmt.Errorf("delete history %s: %w", id, err)
	}
	return nil
}

func (c *Client) listHistory(ctx context.Context, path string) ([]domain.HistoryEntry, error) {
	env, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	entries, err := decodeField[[]domain.HistoryEntry](env, "history", "data")
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return entries, nil
}
