package handlers

import (
	"net/http"

	"dudhiya-collection/internal/api/models"
	"dudhiya-collection/internal/history"
	"dudhiya-collection/internal/valuation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CalculatorHandler serves the buy/sell calculator and its history.
type CalculatorHandler struct {
	store  history.Store
	logger *zap.Logger
}

func NewCalculatorHandler(store history.Store, logger *zap.Logger) *CalculatorHandler {
	if store == nil {
		store = history.NopStore{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalculatorHandler{store: store, logger: logger}
}

// Compare handles POST /api/v1/calculator
func (h *CalculatorHandler) Compare(c *gin.Context) {
	var req models.CalculatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := valuation.Compare(req)
	if err != nil {
		respondCalcError(c, err)
		return
	}

	entry, err := h.store.Save(c.Request.Context(), history.Entry{Input: req, Result: res})
	if err != nil {
		h.logger.Error("failed to save calculator history", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to save calculation", nil)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListHistory handles GET /api/v1/calculator/history
func (h *CalculatorHandler) ListHistory(c *gin.Context) {
	var q models.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBadRequest(c, err)
		return
	}

	entries, err := h.store.List(c.Request.Context(), q.Limit)
	if err != nil {
		h.logger.Error("failed to list calculator history", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to load history", nil)
		return
	}
	c.JSON(http.StatusOK, models.HistoryResponse{Entries: entries, Count: len(entries)})
}

// ClearHistory handles DELETE /api/v1/calculator/history
func (h *CalculatorHandler) ClearHistory(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.logger.Error("failed to clear calculator history", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to clear history", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
