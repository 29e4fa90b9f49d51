package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

// AddedMessage is the result of AddMessage.
type AddedMessage struct {
	MessageID domain.ID       `json:"message_id"`
	Message   *domain.Message `json:"message,omitempty"`
}

func (c *Client) AddMessage(ctx context.Context, m domain.Message) (*AddedMessage, error) {
	if m.Timestamp == "" {
		m.Timestamp = c.now().UTC().Format(time.RFC3339)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	env, err := c.post(ctx, "/api/messages/add", m)
	if err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}

	out := &AddedMessage{}
	if msg, err := decodeField[domain.Message](env, "message", "data"); err == nil {
		out.Message = &msg
		out.MessageID = msg.ID
	}
	if id, err := decodeField[domain.ID](env, "message_id", "id"); err == nil {
		out.MessageID = id
	}
	return out, nil
}

func (c *Client) GetMessage(ctx context.Context, id domain.ID) (*domain.Message, error) {
	env, err := c.get(ctx, "/api/messages/"+pathID(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	msg, err := decodeField[domain.Message](env, "message", "data")
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	return &msg, nil
}

func (c *Client) UserMessages(ctx context.Context, userID domain.ID, limit int) ([]domain.Message, error) {
	return c.listMessages(ctx, "/api/messages/user/"+pathID(userID), limitQuery(limit))
}

// RecentMessages returns at most limit of the newest messages. It is a
// single page, not a ranged query.
func (c *Client) RecentMessages(ctx context.Context, limit int) ([]domain.Message, error) {
	return c.listMessages(ctx, "/api/messages/recent", limitQuery(limit))
}

func (c *Client) SearchMessages(ctx context.Context, query string) ([]domain.Message, error) {
	return c.listMessages(ctx, "/api/messages/search", url.Values{"q": {query}})
}

func (c *Client) MessagesByEmotion(ctx context.Context, emotion string) ([]domain.Message, error) {
	return c.listMessages(ctx, "/api/messages/emotion/"+url.PathEscape(emotion), nil)
}

func (c *Client) UpdateMessage(ctx context.Context, id domain.ID, update domain.MessageUpdate) error {
	if _, err := c.put(ctx, "/api/messages/"+pathID(id), update); err != nil {
		return fmt.Errorf("update message %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, id domain.ID) error {
	if _, err := c.delete(ctx, "/api/messages/"+pathID(id)); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}

func (c *Client) CountMessages(ctx context.Context) (int, error) {
	env, err := c.get(ctx, "/api/messages/count", nil)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	n, err := decodeField[int](env, "count", "total", "data")
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func (c *Client) listMessages(ctx context.Context, path string, query url.Values) ([]domain.Message, error) {
	env, err := c.get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	msgs, err := decodeField[[]domain.Message](env, "messages", "data", "results")
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
