package domain

import "encoding/json"

// DashboardStats is the payload of the dashboard stats endpoint.
type DashboardStats struct {
	TotalUsers          int            `json:"total_users"`
	ActiveUsersToday    int            `json:"active_users_today"`
	TotalSnapshots      int            `json:"total_snapshots"`
	TotalSessions       int            `json:"total_sessions"`
	EmotionDistribution map[string]int `json:"emotion_distribution"`
}

type ActiveSession struct {
	ID        ID     `json:"id"`
	UserName  string `json:"user_name"`
	UserType  string `json:"user_type"`
	StartTime string `json:"start_time"`
	Duration  string `json:"duration"`
	Snapshots int    `json:"snapshots"`
	Status    string `json:"status"`
}

type SystemLog struct {
	ID        ID     `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	EventType string `json:"event_type"`
	Message   string `json:"message"`
	UserName  string `json:"user_name,omitempty"`
}

// StatisticsOverview is the payload of the statistics overview endpoint.
// Distribution and trend series are passed through undecoded.
type StatisticsOverview struct {
	Overview struct {
		TotalEmotionAnalyses  int     `json:"total_emotion_analyses"`
		AvgSessionDuration    float64 `json:"avg_session_duration"`
		FaceDetectionAccuracy float64 `json:"face_detection_accuracy"`
		UniqueUsers           int     `json:"unique_users"`
	} `json:"overview"`
	EmotionDistribution json.RawMessage `json:"emotion_distribution,omitempty"`
	EmotionTrends       json.RawMessage `json:"emotion_trends,omitempty"`
	Period              string          `json:"period"`
}

type SystemStats struct {
	TotalUsers          int            `json:"total_users"`
	RegisteredUsers     int            `json:"registered_users"`
	GuestUsers          int            `json:"guest_users"`
	ActiveUsersToday    int            `json:"active_users_today"`
	TotalSessions       int            `json:"total_sessions"`
	TotalSnapshots      int            `json:"total_snapshots"`
	EmotionDistribution map[string]int `json:"emotion_distribution"`
	Timestamp           string         `json:"timestamp"`
}

// Log levels accepted by the system-logs endpoint.
const (
	LogLevelAll     = "all"
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Statistics overview periods.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)
