package handlers

import (
	"net/http"

	"dudhiya-collection/internal/api/models"
	"dudhiya-collection/internal/valuation"

	"github.com/gin-gonic/gin"
)

// ValuationHandler serves the collection screen's preview calculator.
type ValuationHandler struct {
	baseSNF float64
}

// NewValuationHandler uses baseSNF when a request leaves it unset.
func NewValuationHandler(baseSNF float64) *ValuationHandler {
	return &ValuationHandler{baseSNF: baseSNF}
}

// Calculate handles POST /api/v1/valuations
func (h *ValuationHandler) Calculate(c *gin.Context) {
	var req models.ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if req.BaseSNFPercentage == 0 {
		req.BaseSNFPercentage = h.baseSNF
	}

	res, err := valuation.Calculate(req)
	if err != nil {
		respondCalcError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ValuationResponse{
		Input:   req,
		Result:  res,
		Display: models.NewValuationDisplay(res),
	})
}

// SNFFromCLR handles POST /api/v1/snf-from-clr
func (h *ValuationHandler) SNFFromCLR(c *gin.Context) {
	var req models.SNFFromCLRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var resp models.SNFResponse
	if snf, ok := valuation.SNFFromCLRText(string(req.CLR), string(req.FatPercentage)); ok {
		resp.SNF = &snf
	}
	c.JSON(http.StatusOK, resp)
}
