package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bitebot/backend/internal/domain"
	"github.com/bitebot/backend/internal/scoring"
	"github.com/bitebot/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "bitebot-backend"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scoring *usecase.ScoringService
	metrics *Metrics
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler. A nil scoring service answers 503 on scoring routes.
func NewHandler(scoringService *usecase.ScoringService, metrics *Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		scoring: scoringService,
		metrics: metrics,
		logger:  logger,
	}
}

func successBody(data any) gin.H {
	return gin.H{"status": "success", "data": data}
}

func errorBody(message string) gin.H {
	return gin.H{"status": "error", "error": message}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     serviceName,
		"version":     serviceVersion,
		"food_lookup": h.scoring != nil && h.scoring.FoodLookupEnabled(),
	})
}

// ListMicronutrients returns the tracked micronutrient vocabulary
func (h *Handler) ListMicronutrients(c *gin.Context) {
	c.JSON(http.StatusOK, successBody(scoring.Vocabulary()))
}

// ScoreMeal scores an analysis document
func (h *Handler) ScoreMeal(c *gin.Context) {
	if h.scoring == nil {
		c.JSON(http.StatusServiceUnavailable, errorBody("scoring service not configured"))
		return
	}

	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil {
		h.observe("meal", "invalid", nil)
		c.JSON(http.StatusBadRequest, errorBody("request body must be a JSON object"))
		return
	}

	result, err := h.scoring.ScoreMeal(c.Request.Context(), doc)
	if err != nil {
		h.observe("meal", "invalid", nil)
		h.respondError(c, err)
		return
	}

	h.observe("meal", "ok", scoreValues(result))
	c.JSON(http.StatusOK, successBody(result))
}

// ScoreFood looks up a single food and scores one serving of it
func (h *Handler) ScoreFood(c *gin.Context) {
	if h.scoring == nil {
		c.JSON(http.StatusServiceUnavailable, errorBody("scoring service not configured"))
		return
	}

	var req domain.FoodScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.observe("food", "invalid", nil)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.scoring.ScoreFood(c.Request.Context(), &req)
	if errors.Is(err, domain.ErrLowConfidence) && result != nil {
		h.observe("food", "low_confidence", scoreValues(result.Scores))
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"data":    result,
			"warning": "low confidence match: " + result.Food.Description,
		})
		return
	}
	if err != nil {
		h.observe("food", "error", nil)
		h.respondError(c, err)
		return
	}

	h.observe("food", "ok", scoreValues(result.Scores))
	c.JSON(http.StatusOK, successBody(result))
}

// respondError maps domain errors to HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	var invalid *domain.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  invalid.Error(),
			"field":  invalid.Field,
		})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, errorBody(err.Error()))
	case errors.Is(err, domain.ErrFoodLookupDisabled):
		c.JSON(http.StatusServiceUnavailable, errorBody(err.Error()))
	case errors.Is(err, domain.ErrUSDAAPIFailure):
		requestLogger(c, h.logger).Warn("upstream failure", slog.Any("error", err))
		c.JSON(http.StatusBadGateway, errorBody("food database unavailable"))
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, errorBody("request timed out"))
	case errors.Is(err, context.Canceled):
		c.JSON(499, errorBody("request cancelled"))
	default:
		requestLogger(c, h.logger).Error("unhandled error", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
}

func (h *Handler) observe(kind, outcome string, values map[string]float64) {
	if h.metrics != nil {
		h.metrics.ObserveScore(kind, outcome, values)
	}
}

func scoreValues(r *domain.ScoreResult) map[string]float64 {
	if r == nil {
		return nil
	}
	return map[string]float64{
		"glycemic_index":        r.GlycemicIndex,
		"inflammatory":          r.Inflammatory,
		"heart_health":          r.HeartHealth,
		"digestive":             r.Digestive,
		"meal_balance":          r.MealBalance,
		"micronutrient_balance": r.MicronutrientBalance,
	}
}
