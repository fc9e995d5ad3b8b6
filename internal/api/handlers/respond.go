package handlers

import (
	"errors"
	"net/http"

	"dudhiya-collection/internal/api/models"
	"dudhiya-collection/internal/collection"
	"dudhiya-collection/internal/valuation"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func respondBadRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// respondCalcError maps calculation errors onto the envelope. Errors it does
// not recognise become 500s.
func respondCalcError(c *gin.Context, err error) {
	var verr *valuation.ValidationError
	if errors.As(err, &verr) {
		respondError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), map[string]interface{}{
			"fields": verr.Errors,
		})
		return
	}

	var rerr *collection.RequestError
	if errors.As(err, &rerr) {
		respondError(c, http.StatusBadRequest, "INVALID_FIELD", rerr.Message, map[string]interface{}{
			"field": rerr.Field,
		})
		return
	}

	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
}
