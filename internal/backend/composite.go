package backend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

// RecentPageSize is how many recent messages the period queries fetch.
// Messages older than that page are never seen.
const RecentPageSize = 100

// FullMessageResult is the outcome of ProcessFullMessage.
type FullMessageResult struct {
	UserID      domain.ID
	UserCreated bool
	Message     *AddedMessage
}

// ProcessFullMessage adds m, creating its sender first when m has no user id.
//
// The two steps are not atomic. If adding the message fails after the user
// was created, the user stays on the backend; the returned result still
// carries its id and the error wraps domain.ErrPartialWrite.
func (c *Client) ProcessFullMessage(ctx context.Context, m domain.Message) (*FullMessageResult, error) {
	res := &FullMessageResult{UserID: m.UserID}

	if m.UserID.IsZero() {
		created, err := c.CreateUser(ctx, m.Sender())
		if err != nil {
			return nil, err
		}
		res.UserID = created.UserID
		res.UserCreated = true
		m.UserID = created.UserID
	}

	added, err := c.AddMessage(ctx, m)
	if err != nil {
		if res.UserCreated {
			return res, fmt.Errorf("user %s created but message not added: %w", res.UserID, domain.ErrPartialWrite.WithError(err))
		}
		return nil, err
	}

	res.Message = added
	return res, nil
}

// BatchResult is the per-item outcome of ProcessBatchMessages.
type BatchResult struct {
	Index   int
	Success bool
	Result  *FullMessageResult
	Err     error
}

// ProcessBatchMessages runs ProcessFullMessage over msgs one at a time, in
// order. A failed item never aborts the batch; a cancelled context marks
// every remaining item failed.
func (c *Client) ProcessBatchMessages(ctx context.Context, msgs []domain.Message) []BatchResult {
	results := make([]BatchResult, len(msgs))

	for i, m := range msgs {
		results[i].Index = i
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		res, err := c.ProcessFullMessage(ctx, m)
		results[i].Result = res
		if err != nil {
			results[i].Err = err
			c.logger.Warn("batch item failed", "index", i, "error", err)
			continue
		}
		results[i].Success = true
	}

	return results
}

// MessagesForPeriod returns the messages of one recent page whose timestamp
// lies in [start, end]. Timestamps later than the fetch instant are
// treated as clock skew and dropped. This is an approximation: anything
// older than the newest RecentPageSize messages is missed.
func (c *Client) MessagesForPeriod(ctx context.Context, start, end time.Time) ([]domain.Message, error) {
	fetchedAt := c.now()
	msgs, err := c.RecentMessages(ctx, RecentPageSize)
	if err != nil {
		return nil, fmt.Errorf("messages for period: %w", err)
	}

	upper := end
	if fetchedAt.Before(upper) {
		upper = fetchedAt
	}

	var out []domain.Message
	for _, m := range msgs {
		ts, err := m.Time()
		if err != nil {
			c.logger.Debug("skipping message with unparsable timestamp", "id", m.ID, "timestamp", m.Timestamp)
			continue
		}
		if ts.Before(start) || ts.After(upper) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// PeriodAnalysis aggregates the emotions of the messages in a period.
type PeriodAnalysis struct {
	Start           time.Time          `json:"start"`
	End             time.Time          `json:"end"`
	TotalMessages   int                `json:"total_messages"`
	DominantCounts  map[string]int     `json:"dominant_counts"`
	MostCommon      string             `json:"most_common,omitempty"`
	AverageEmotions map[string]float64 `json:"average_emotions"`
	Messages        []domain.Message   `json:"messages"`
}

// EmotionAnalysisForPeriod summarizes MessagesForPeriod: counts of
// dominant emotions and mean per-label percentages over every history
// point of every message.
func (c *Client) EmotionAnalysisForPeriod(ctx context.Context, start, end time.Time) (*PeriodAnalysis, error) {
	msgs, err := c.MessagesForPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	a := &PeriodAnalysis{
		Start:           start,
		End:             end,
		TotalMessages:   len(msgs),
		DominantCounts:  make(map[string]int),
		AverageEmotions: make(map[string]float64),
		Messages:        msgs,
	}

	samples := make(map[string][]float64)
	for _, m := range msgs {
		if m.DominantEmotion != "" {
			a.DominantCounts[domain.CanonicalEmotion(m.DominantEmotion)]++
		}
		for _, p := range m.EmotionHistory20s {
			for label, v := range p.EmotionPercentage {
				samples[label] = append(samples[label], v)
			}
		}
	}

	for label, vs := range samples {
		mean, err := stats.Mean(vs)
		if err != nil {
			continue
		}
		a.AverageEmotions[label] = mean
	}

	a.MostCommon = mostCommon(a.DominantCounts)
	return a, nil
}

// mostCommon picks the highest count, breaking ties by label name.
func mostCommon(counts map[string]int) string {
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	best := ""
	for _, l := range labels {
		if best == "" || counts[l] > counts[best] {
			best = l
		}
	}
	return best
}
