// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/infrastructure/http/v1/dto"
	"ledgerpos/internal/infrastructure/http/v1/handlers"
	"ledgerpos/internal/infrastructure/http/v1/middleware"
	"ledgerpos/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// DB backs the readiness probe
	DB handlers.Pinger

	// Location is the business calendar for date filters
	Location *time.Location

	// Development enables gin debug mode
	Development bool

	Accounts handlers.AccountsService
	Reports  handlers.ReportsService
	Finance  handlers.FinanceService
	Cash     handlers.CashService
	Sales    handlers.SalesService
	Payments handlers.PaymentsService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	dto.RegisterValidators()

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth, no company required)
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))
	api.Use(middleware.Tenant())

	registerAccountRoutes(api, handlers.NewAccountsHandler(base, cfg.Accounts))
	registerReportRoutes(api, handlers.NewReportsHandler(base, cfg.Reports))
	registerFinanceRoutes(api, handlers.NewFinanceHandler(base, cfg.Finance))
	registerCashRoutes(api, handlers.NewCashHandler(base, cfg.Cash, cfg.Location))
	registerDocumentRoutes(api,
		handlers.NewSalesHandler(base, cfg.Sales),
		handlers.NewPaymentsHandler(base, cfg.Payments))

	return router
}

func registerAccountRoutes(api *gin.RouterGroup, h *handlers.AccountsHandler) {
	accounts := api.Group("/accounts", middleware.RequirePermission(middleware.PermAccountsRead))
	{
		accounts.GET("/customers/:id/movements", h.CustomerMovements)
		accounts.GET("/customers/:id/balance", h.CustomerBalance)
		accounts.GET("/suppliers/:id/movements", h.SupplierMovements)
		accounts.GET("/suppliers/:id/balance", h.SupplierBalance)
	}
}

func registerReportRoutes(api *gin.RouterGroup, h *handlers.ReportsHandler) {
	reports := api.Group("/reports", middleware.RequirePermission(middleware.PermReportsRead))
	{
		reports.GET("/aging", h.GetAging)
		reports.GET("/aging/export.xlsx", h.ExportXLSX)
		reports.GET("/aging/export.pdf", h.ExportPDF)
	}
}

func registerFinanceRoutes(api *gin.RouterGroup, h *handlers.FinanceHandler) {
	api.GET("/finance/stats", middleware.RequirePermission(middleware.PermFinanceRead), h.GetStats)
}

func registerCashRoutes(api *gin.RouterGroup, h *handlers.CashHandler) {
	read := middleware.RequirePermission(middleware.PermCashRead)
	write := middleware.RequirePermission(middleware.PermCashWrite)

	cash := api.Group("/cash")
	{
		cash.GET("/session", read, h.ActiveSession)
		cash.GET("/closures", read, h.ListClosures)
		cash.POST("/openings", write, h.CreateOpening)
		cash.POST("/movements", write, h.RecordMovement)
		cash.POST("/closures", write, h.CreateClosure)
	}
}

func registerDocumentRoutes(api *gin.RouterGroup, sales *handlers.SalesHandler, payments *handlers.PaymentsHandler) {
	pay := middleware.RequirePermission(middleware.PermPaymentWrite)

	api.POST("/sales", middleware.RequirePermission(middleware.PermSalesWrite), sales.Create)
	api.POST("/sales/:id/payments", pay, payments.AddSalePayment)
	api.POST("/repairs/:id/payments", pay, payments.AddRepairPayment)
	api.POST("/purchase-orders/:id/payments", pay, payments.AddPurchasePayment)
}
