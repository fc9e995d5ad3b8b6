package api

import (
	"net/http"

	"dudhiya-collection/internal/api/handlers"
	"dudhiya-collection/internal/api/middleware"
	"dudhiya-collection/internal/api/models"
	"dudhiya-collection/internal/collection"
	"dudhiya-collection/internal/config"
	"dudhiya-collection/internal/history"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps holds what the HTTP layer needs from the rest of the service.
type Deps struct {
	AppName  string
	Env      string
	Settings config.DairySettings
	History  history.Store
	Logger   *zap.Logger
	// Reports is nil when scheduled reconciliation is off.
	Reports handlers.ReportSource
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler(d.Logger))

	baseSNF := d.Settings.CalculatorDefaultSNF()
	valuationHandler := handlers.NewValuationHandler(baseSNF)
	collectionHandler := handlers.NewCollectionHandler(collection.NewEngine(d.Settings.ToDefaults()))
	calculatorHandler := handlers.NewCalculatorHandler(d.History, d.Logger.Named("calculator"))
	billHandler := handlers.NewBillHandler(d.Settings.Name, baseSNF)
	settingsHandler := handlers.NewSettingsHandler(d.Settings, d.Reports)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": d.AppName})
	})

	// Same path the backend exposes.
	router.POST("/collections/calculate", collectionHandler.Calculate)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/valuations", valuationHandler.Calculate)
		v1.POST("/snf-from-clr", valuationHandler.SNFFromCLR)

		v1.POST("/calculator", calculatorHandler.Compare)
		v1.GET("/calculator/history", calculatorHandler.ListHistory)
		v1.DELETE("/calculator/history", calculatorHandler.ClearHistory)

		v1.POST("/bills", billHandler.Create)

		v1.GET("/settings", settingsHandler.Get)
		v1.GET("/reconciliation", settingsHandler.LastReconciliation)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "route not found"},
		})
	})

	return router
}
