package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/sampler"
)

// SamplerView is the read side of a running sampler.
type SamplerView interface {
	Stats() sampler.Status
	SessionID() string
	Latest(n int) []domain.Reading
	Capacity() int
}

type SamplerHandler struct {
	sampler SamplerView
}

func NewSamplerHandler(s SamplerView) *SamplerHandler {
	return &SamplerHandler{sampler: s}
}

// StatsResponse is the sampler status plus its session id.
type StatsResponse struct {
	SessionID string `json:"session_id"`
	sampler.Status
}

type ReadingsResponse struct {
	Readings []domain.Reading `json:"readings"`
	Count    int              `json:"count"`
}

func (h *SamplerHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(StatsResponse{
		SessionID: h.sampler.SessionID(),
		Status:    h.sampler.Stats(),
	})
}

// Readings serves the newest buffered readings. ?count defaults to 10 and
// may not exceed the buffer capacity.
func (h *SamplerHandler) Readings(c *fiber.Ctx) error {
	count := c.QueryInt("count", sampler.RecentCount)
	if count < 1 || count > h.sampler.Capacity() {
		return domain.ErrValidationFailed.WithError(
			fmt.Errorf("count must be between 1 and %d", h.sampler.Capacity()))
	}

	readings := h.sampler.Latest(count)
	return c.JSON(ReadingsResponse{
		Readings: readings,
		Count:    len(readings),
	})
}
