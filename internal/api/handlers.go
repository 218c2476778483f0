package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/scribeworks/veritas/internal/corpus"
	"github.com/scribeworks/veritas/internal/engine"
	"github.com/scribeworks/veritas/internal/ingest"
	"github.com/scribeworks/veritas/internal/models"
	"github.com/scribeworks/veritas/internal/status"
)

// ChecksStore serves and removes persisted check reports.
type ChecksStore interface {
	GetCheckByID(ctx context.Context, checkID string) (*models.CheckReport, error)
	ListChecks(ctx context.Context, limit, offset int64) ([]*models.CheckReport, error)
	DeleteCheck(ctx context.Context, checkID string) (bool, error)
}

// Handler holds dependencies for handlers
type Handler struct {
	checker    *engine.Engine
	ingestSvc  *ingest.Service
	checksRepo ChecksStore
	tracker    *status.Tracker
}

func NewHandler(
	checker *engine.Engine,
	ingestSvc *ingest.Service,
	checksRepo ChecksStore,
	tracker *status.Tracker,
) *Handler {
	return &Handler{
		checker:    checker,
		ingestSvc:  ingestSvc,
		checksRepo: checksRepo,
		tracker:    tracker,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Check runs a similarity check synchronously and returns the full report.
func (h *Handler) Check(c *gin.Context) {
	var req models.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "text must not be empty",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	report, err := h.checker.CheckWithOverrides(c.Request.Context(), req.Text, req)
	if err != nil {
		log.Error().Err(err).Msg("Similarity check failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Similarity check failed",
			Code:  "CHECK_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// IngestDocument adds a reference document to the corpus.
func (h *Handler) IngestDocument(c *gin.Context) {
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	doc, err := h.ingestSvc.Ingest(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, corpus.ErrInvalidDocument) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_DOCUMENT",
			})
			return
		}
		log.Error().Err(err).Msg("Failed to ingest document")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to ingest document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusCreated, models.IngestResponse{DocumentID: doc.ID})
}

// DeactivateDocument soft-deletes a corpus document.
func (h *Handler) DeactivateDocument(c *gin.Context) {
	id := c.Param("id")

	err := h.ingestSvc.Deactivate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, corpus.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Document not found",
				Code:  "NOT_FOUND",
			})
			return
		}
		log.Error().Err(err).Str("documentId", id).Msg("Failed to deactivate document")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to deactivate document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCheck returns a persisted check report, falling back to the live state
// tracker when the report has not landed yet.
func (h *Handler) GetCheck(c *gin.Context) {
	checkID := c.Param("id")

	report, err := h.checksRepo.GetCheckByID(c.Request.Context(), checkID)
	if err != nil {
		log.Error().Err(err).Str("checkId", checkID).Msg("Failed to load check report")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to load check report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if report == nil {
		if h.tracker != nil {
			state, stateErr := h.tracker.Get(c.Request.Context(), checkID)
			if stateErr == nil && !state.Terminal() {
				c.JSON(http.StatusOK, gin.H{
					"check_id": checkID,
					"state":    state,
				})
				return
			}
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Check not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListChecks returns recent check reports, newest first.
func (h *Handler) ListChecks(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	if err != nil || offset < 0 {
		offset = 0
	}

	reports, err := h.checksRepo.ListChecks(c.Request.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list check reports")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to list check reports",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if reports == nil {
		reports = []*models.CheckReport{}
	}
	c.JSON(http.StatusOK, gin.H{"checks": reports})
}

// DeleteCheck removes a persisted check report.
func (h *Handler) DeleteCheck(c *gin.Context) {
	checkID := c.Param("id")

	deleted, err := h.checksRepo.DeleteCheck(c.Request.Context(), checkID)
	if err != nil {
		log.Error().Err(err).Str("checkId", checkID).Msg("Failed to delete check report")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to delete check report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Check not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// CorpusStats reports corpus size and growth keywords for the optional query.
func (h *Handler) CorpusStats(c *gin.Context) {
	stats, err := h.checker.GrowthHint(c.Request.Context(), c.Query("query"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute corpus stats")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to compute corpus stats",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
