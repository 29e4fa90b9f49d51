package sampler

import (
	"github.com/montanaflynn/stats"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

// RecentCount is how many of the newest readings a payload carries.
const RecentCount = 10

// Stats are the sampler counters. Times are Unix milliseconds, uptime is in
// milliseconds.
type Stats struct {
	FrameCount     int64 `json:"frameCount"`
	DetectionCount int64 `json:"detectionCount"`
	StartTime      int64 `json:"startTime"`
	LastFrameTime  int64 `json:"lastFrameTime"`
	Uptime         int64 `json:"uptime"`
	FPS            int   `json:"fps"`
}

// Status is Stats plus the live state, as served by the status endpoint.
type Status struct {
	Stats
	State            State `json:"state"`
	IsRunning        bool  `json:"isRunning"`
	EmotionDataCount int   `json:"emotionDataCount"`
}

// Summary aggregates every buffered reading.
type Summary struct {
	MostFrequentEmotion string         `json:"mostFrequentEmotion"`
	AverageConfidence   float64        `json:"averageConfidence"` // percent, one decimal
	EmotionDistribution map[string]int `json:"emotionDistribution"`
	TotalReadings       int            `json:"totalReadings"`
}

// Payload is the batch body handed to every sink. Readings holds the whole
// buffer for sinks that keep history; it is not part of the wire body.
type Payload struct {
	Timestamp      int64            `json:"timestamp"`
	SessionID      string           `json:"sessionId"`
	Stats          Stats            `json:"stats"`
	RecentEmotions []domain.Reading `json:"recentEmotions"`
	Summary        *Summary         `json:"summary"`
	Readings       []domain.Reading `json:"-"`
}

// Summarize counts dominant labels over readings. The distribution always
// holds the seven canonical labels. On a count tie the label appearing later
// in domain.SummaryOrder wins; labels outside it rank after it by name.
// lang selects the display label of the most frequent emotion. No readings
// yield nil.
func Summarize(readings []domain.Reading, lang string) *Summary {
	if len(readings) == 0 {
		return nil
	}

	counts := make(map[string]int, len(domain.SummaryOrder))
	for _, l := range domain.SummaryOrder {
		counts[l] = 0
	}

	confidences := make(stats.Float64Data, 0, len(readings))
	for _, r := range readings {
		counts[r.DominantEmotion]++
		confidences = append(confidences, r.Confidence)
	}

	order := append([]string(nil), domain.SummaryOrder...)
	order = append(order, extraLabels(counts)...)

	best := order[0]
	for _, l := range order[1:] {
		if !(counts[best] > counts[l]) {
			best = l
		}
	}

	mean, _ := stats.Mean(confidences)
	avg, _ := stats.Round(mean*100, 1)

	return &Summary{
		MostFrequentEmotion: domain.EmotionLabel(best, lang),
		AverageConfidence:   avg,
		EmotionDistribution: counts,
		TotalReadings:       len(readings),
	}
}

func extraLabels(counts map[string]int) []string {
	known := make(map[string]bool, len(domain.SummaryOrder))
	for _, l := range domain.SummaryOrder {
		known[l] = true
	}
	extra := make(domain.Emotions)
	for l := range counts {
		if !known[l] {
			extra[l] = 0
		}
	}
	// Labels() sorts non-canonical names.
	return extra.Labels()
}
