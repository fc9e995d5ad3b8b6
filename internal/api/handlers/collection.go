package handlers

import (
	"net/http"

	"dudhiya-collection/internal/collection"

	"github.com/gin-gonic/gin"
)

// CollectionHandler prices collections the way the backend stores them.
type CollectionHandler struct {
	engine *collection.Engine
}

func NewCollectionHandler(engine *collection.Engine) *CollectionHandler {
	return &CollectionHandler{engine: engine}
}

// Calculate handles POST /collections/calculate
func (h *CollectionHandler) Calculate(c *gin.Context) {
	var req collection.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resp, err := h.engine.Calculate(req)
	if err != nil {
		respondCalcError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
