package handlers

import (
	"net/http"

	"dudhiya-collection/internal/api/models"
	"dudhiya-collection/internal/config"
	"dudhiya-collection/internal/reconcile"
	"dudhiya-collection/internal/valuation"

	"github.com/gin-gonic/gin"
)

// SettingsHandler reports configuration and background state.
type SettingsHandler struct {
	settings config.DairySettings
	reports  ReportSource
}

// ReportSource yields the latest reconciliation report, if any.
type ReportSource interface {
	LastReport() *reconcile.Report
}

func NewSettingsHandler(settings config.DairySettings, reports ReportSource) *SettingsHandler {
	return &SettingsHandler{settings: settings, reports: reports}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, models.SettingsResponse{
		Dairy:             h.settings,
		BaseSNFOptions:    valuation.BaseSNFOptions,
		CalculatorBaseSNF: h.settings.CalculatorDefaultSNF(),
	})
}

// LastReconciliation handles GET /api/v1/reconciliation
func (h *SettingsHandler) LastReconciliation(c *gin.Context) {
	if h.reports == nil {
		respondError(c, http.StatusNotFound, "RECONCILIATION_DISABLED", "scheduled reconciliation is not configured", nil)
		return
	}
	rep := h.reports.LastReport()
	if rep == nil {
		respondError(c, http.StatusNotFound, "NO_REPORT", "no reconciliation has run yet", nil)
		return
	}
	c.JSON(http.StatusOK, rep)
}
