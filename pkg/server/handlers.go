package server

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/truthscan/truthscan/pkg/config"
	"github.com/truthscan/truthscan/pkg/history"
	"github.com/truthscan/truthscan/pkg/ml"
)

// AnalyzeRequest is the body for POST /analyze and POST /related.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// handleRoot reports service identity.
func (s *Server) handleRoot(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    config.ServiceName,
		"version": config.APIVersion,
	})
}

// handleHealth reports liveness and model readiness. The process stays
// "online" even when the model never loaded; callers watch model_loaded.
func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "online",
		"model_loaded": s.oracle.IsLoaded(),
	})
}

// handleAnalyze runs the decision pipeline for one article.
func (s *Server) handleAnalyze(c fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Request body must be JSON with a 'text' field",
		})
	}

	verdict, err := s.analyzer.Analyze(c.Context(), c.IP(), req.Text)
	if err != nil {
		return analyzeError(c, err)
	}

	return c.JSON(verdict)
}

// analyzeError maps pipeline errors to caller-visible statuses.
func analyzeError(c fiber.Ctx, err error) error {
	var validationErr *ml.ValidationError
	switch {
	case errors.Is(err, ml.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"detail": "Too many requests. Please try again later.",
		})
	case errors.Is(err, ml.ErrNotLoaded):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"detail": "Model is not loaded. Please try again later.",
		})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": validationErr.Message,
		})
	default:
		log.Printf("Analysis error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "An error occurred during analysis. Please try again.",
		})
	}
}

// handleHistory returns recent predictions, newest first.
func (s *Server) handleHistory(c fiber.Ctx) error {
	if s.store == nil || !s.store.IsConnected() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"detail": "History service is unavailable. Database not connected.",
		})
	}

	limit := history.DefaultQueryLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	limit = history.ClampLimit(limit)

	records, err := s.store.QueryRecent(c.Context(), limit)
	if err != nil {
		log.Printf("Error fetching history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Failed to retrieve prediction history.",
		})
	}

	return c.JSON(fiber.Map{
		"count":       len(records),
		"predictions": records,
	})
}

// handleRelated returns previously analyzed articles similar to the
// submitted text. 503 when the similarity index is not available.
func (s *Server) handleRelated(c fiber.Ctx) error {
	if !s.analyzer.RelatedEnabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"detail": "Related-article search is unavailable.",
		})
	}

	var req AnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Request body must be JSON with a 'text' field",
		})
	}
	if err := ml.ValidateInput(req.Text); err != nil {
		var validationErr *ml.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": validationErr.Message,
			})
		}
		return err
	}

	articles := s.analyzer.Related(c.Context(), req.Text, history.DefaultQueryLimit)
	return c.JSON(fiber.Map{
		"count":    len(articles),
		"articles": articles,
	})
}
