package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/archive"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

// ArchiveReader is the query side of the reading archive.
type ArchiveReader interface {
	Recent(ctx context.Context, sessionID string, limit int) ([]archive.Record, error)
	Similar(ctx context.Context, emotions domain.Emotions, limit int) ([]archive.Match, error)
	CountByEmotion(ctx context.Context, since time.Time) (map[string]int, error)
}

type ArchiveHandler struct {
	archive ArchiveReader
	logger  *slog.Logger
}

func NewArchiveHandler(archive ArchiveReader, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		archive: archive,
		logger:  logger,
	}
}

type RecordsResponse struct {
	Records []archive.Record `json:"records"`
}

type MatchesResponse struct {
	Matches []archive.Match `json:"matches"`
}

type DistributionResponse struct {
	Since  time.Time      `json:"since"`
	Counts map[string]int `json:"counts"`
}

// SimilarRequest is the body of a similarity query.
type SimilarRequest struct {
	Emotions domain.Emotions `json:"emotions"`
	Limit    int             `json:"limit"`
}

func (h *ArchiveHandler) Recent(c *fiber.Ctx) error {
	records, err := h.archive.Recent(c.UserContext(), c.Query("session"), c.QueryInt("limit", archive.DefaultLimit))
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}
	if records == nil {
		records = []archive.Record{}
	}
	return c.JSON(RecordsResponse{Records: records})
}

func (h *ArchiveHandler) Similar(c *fiber.Ctx) error {
	var req SimilarRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if len(req.Emotions) == 0 {
		return domain.ErrValidationFailed.WithError(errors.New("emotions is required"))
	}

	matches, err := h.archive.Similar(c.UserContext(), req.Emotions, req.Limit)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}
	if matches == nil {
		matches = []archive.Match{}
	}
	return c.JSON(MatchesResponse{Matches: matches})
}

// Distribution counts dominant emotions over the last ?window (default 1h).
func (h *ArchiveHandler) Distribution(c *fiber.Ctx) error {
	window := time.Hour
	if raw := c.Query("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return domain.ErrValidationFailed.WithError(errors.New("window must be a positive duration"))
		}
		window = d
	}

	since := time.Now().Add(-window).UTC()
	counts, err := h.archive.CountByEmotion(c.UserContext(), since)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	h.logger.Debug("archive distribution served", "window", window, "labels", len(counts))
	return c.JSON(DistributionResponse{Since: since, Counts: counts})
}
