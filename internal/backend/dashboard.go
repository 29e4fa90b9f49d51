package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	env, err := c.get(ctx, "/api/dashboard/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	stats, err := decodeField[domain.DashboardStats](env, "data")
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}

func (c *Client) ActiveSessions(ctx context.Context) ([]domain.ActiveSession, error) {
	env, err := c.get(ctx, "/api/dashboard/active-sessions", nil)
	if err != nil {
		return nil, fmt.Errorf("active sessions: %w", err)
	}
	sessions, err := decodeField[[]domain.ActiveSession](env, "data")
	if err != nil {
		return nil, fmt.Errorf("active sessions: %w", err)
	}
	return sessions, nil
}

// SystemLogs lists backend log entries; an empty level means all.
func (c *Client) SystemLogs(ctx context.Context, level string) ([]domain.SystemLog, error) {
	if level == "" {
		level = domain.LogLevelAll
	}
	env, err := c.get(ctx, "/api/dashboard/system-logs", url.Values{"level": {level}})
	if err != nil {
		return nil, fmt.Errorf("system logs: %w", err)
	}
	logs, err := decodeField[[]domain.SystemLog](env, "data")
	if err != nil {
		return nil, fmt.Errorf("system logs: %w", err)
	}
	return logs, nil
}

// StatisticsOverview aggregates over period; an empty period means a week.
func (c *Client) StatisticsOverview(ctx context.Context, period string) (*domain.StatisticsOverview, error) {
	if period == "" {
		period = domain.PeriodWeek
	}
	env, err := c.get(ctx, "/api/statistics/overview", url.Values{"period": {period}})
	if err != nil {
		return nil, fmt.Errorf("statistics overview: %w", err)
	}
	overview, err := decodeField[domain.StatisticsOverview](env, "data")
	if err != nil {
		return nil, fmt.Errorf("statistics overview: %w", err)
	}
	return &overview, nil
}

func (c *Client) SystemStats(ctx context.Context) (*domain.SystemStats, error) {
	env, err := c.get(ctx, "/api/stats/system", nil)
	if err != nil {
		return nil, fmt.Errorf("system stats: %w", err)
	}
	stats, err := decodeField[domain.SystemStats](env, "system_stats", "data")
	if err != nil {
		return nil, fmt.Errorf("system stats: %w", err)
	}
	return &stats, nil
}
