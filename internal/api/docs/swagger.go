package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// HealthResponse represents a liveness or readiness answer
type HealthResponse struct {
	Status  string            `json:"status" example:"ready"`
	Version string            `json:"version,omitempty" example:"0.1.0"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// StatsResponse represents the sampler counters
type StatsResponse struct {
	SessionID        string `json:"session_id" example:"session_4a1f0c3e-1d2b-4c5d-9e8f-0a1b2c3d4e5f"`
	FrameCount       int64  `json:"frameCount" example:"1200"`
	DetectionCount   int64  `json:"detectionCount" example:"1130"`
	StartTime        int64  `json:"startTime" example:"1760000000000"`
	LastFrameTime    int64  `json:"lastFrameTime" example:"1760000120000"`
	Uptime           int64  `json:"uptime" example:"120000"`
	FPS              int    `json:"fps" example:"10"`
	State            string `json:"state" example:"running"`
	IsRunning        bool   `json:"isRunning" example:"true"`
	EmotionDataCount int    `json:"emotionDataCount" example:"100"`
}

// Reading represents one buffered emotion reading
type Reading struct {
	Timestamp       int64              `json:"timestamp" example:"1760000120000"`
	Emotions        map[string]float64 `json:"emotions"`
	DominantEmotion string             `json:"dominantEmotion" example:"happy"`
	Confidence      float64            `json:"confidence" example:"0.91"`
}

// ReadingsResponse represents the newest readings
type ReadingsResponse struct {
	Readings []Reading `json:"readings"`
	Count    int       `json:"count" example:"10"`
}

// Record represents an archived reading
type Record struct {
	ID        int64   `json:"id" example:"42"`
	SessionID string  `json:"session_id" example:"session_4a1f0c3e-1d2b-4c5d-9e8f-0a1b2c3d4e5f"`
	Reading   Reading `json:"reading"`
}

// RecordsResponse represents archived readings, newest first
type RecordsResponse struct {
	Records []Record `json:"records"`
}

// Match represents an archived reading ranked by similarity
type Match struct {
	Record
	Similarity float64 `json:"similarity" example:"0.97"`
}

// MatchesResponse represents a similarity query answer
type MatchesResponse struct {
	Matches []Match `json:"matches"`
}

// DistributionResponse represents dominant-emotion counts
type DistributionResponse struct {
	Since  string         `json:"since" example:"2026-01-01T00:00:00Z"`
	Counts map[string]int `json:"counts"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

var internalError = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Moodwatch Sampler",
		Version:     "v1.0.0",
		Description: "Status surface of the face-emotion sampler: counters, buffered readings, the reading archive and a live event stream",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		endpoint.New(
			endpoint.GET,
			"/stats",
			endpoint.WithTags("Sampler"),
			endpoint.WithSummary("Sampler counters"),
			endpoint.WithDescription("Frame and detection counts, uptime, fps and buffer fill of the running sampler."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatsResponse{}, "200", "OK"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/readings",
			endpoint.WithTags("Sampler"),
			endpoint.WithSummary("Newest buffered readings"),
			endpoint.WithDescription("Returns up to count readings, oldest first."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("count", parameter.Query, parameter.WithDescription("Number of readings (1 to buffer capacity, default: 10)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ReadingsResponse{}, "200", "OK"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/archive/recent",
			endpoint.WithTags("Archive"),
			endpoint.WithSummary("Archived readings"),
			endpoint.WithDescription("Newest archived readings, optionally for one session. Only mounted when an archive database is configured."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("session", parameter.Query, parameter.WithDescription("Session id filter")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum records (default: 50, max: 1000)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecordsResponse{}, "200", "OK"),
			}),
			endpoint.WithErrors([]response.Response{internalError}),
		),

		endpoint.New(
			endpoint.POST,
			"/archive/similar",
			endpoint.WithTags("Archive"),
			endpoint.WithSummary("Readings similar to an emotion vector"),
			endpoint.WithDescription("Body: {\"emotions\": {\"happy\": 0.9, ...}, \"limit\": 10}. Ranks archived readings by cosine similarity."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MatchesResponse{}, "200", "OK"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/archive/distribution",
			endpoint.WithTags("Archive"),
			endpoint.WithSummary("Dominant emotion counts"),
			endpoint.WithDescription("Counts archived readings per dominant emotion over a trailing window."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("window", parameter.Query, parameter.WithDescription("Go duration, e.g. 30m (default: 1h)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DistributionResponse{}, "200", "OK"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/ws",
			endpoint.WithTags("Stream"),
			endpoint.WithSummary("Live event stream"),
			endpoint.WithDescription("WebSocket upgrade. Emits batch.sent and sampler.state events, filtered by the optional session query parameter."),
			endpoint.WithParams(
				parameter.StrParam("session", parameter.Query, parameter.WithDescription("Only deliver events for this session")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "101", "Switching Protocols"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "Upgrade Required"}, "426", "Upgrade Required"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
