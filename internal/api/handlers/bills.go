package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dudhiya-collection/internal/api/models"
	"dudhiya-collection/internal/bill"
	"dudhiya-collection/internal/valuation"

	"github.com/gin-gonic/gin"
)

// BillHandler prices batches of collections into bills.
type BillHandler struct {
	dairy   string
	baseSNF float64
	now     func() time.Time
}

func NewBillHandler(dairy string, baseSNF float64) *BillHandler {
	return &BillHandler{dairy: dairy, baseSNF: baseSNF, now: time.Now}
}

// Create handles POST /api/v1/bills?format=json|csv|pdf
func (h *BillHandler) Create(c *gin.Context) {
	var q models.BillQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBadRequest(c, err)
		return
	}
	var req models.BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	dairy := req.Dairy
	if dairy == "" {
		dairy = h.dairy
	}
	b, err := bill.NewBuilder(dairy, h.baseSNF).Build(req.Entries)
	if err != nil {
		var verr *valuation.ValidationError
		if errors.As(err, &verr) {
			respondCalcError(c, err)
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_ENTRY", err.Error(), nil)
		return
	}

	switch q.Format {
	case "csv":
		var buf bytes.Buffer
		if err := bill.WriteCSV(&buf, b); err != nil {
			respondCalcError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, b.Number))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "pdf":
		out, err := bill.RenderPDF(b, h.now())
		if err != nil {
			respondCalcError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, b.Number))
		c.Data(http.StatusOK, "application/pdf", out)
	default:
		c.JSON(http.StatusOK, b)
	}
}
