// Package server assembles the HTTP router shared by the API binary and the
// integration tests.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"repairdesk/internal/config"
	"repairdesk/internal/handlers"
	"repairdesk/internal/logger"
	"repairdesk/internal/middleware"
	"repairdesk/internal/ratelimit"
	"repairdesk/internal/services"
	"repairdesk/internal/shopify"

	_ "repairdesk/internal/docs" // Import swagger docs
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB
	StoreTimeout time.Duration
	Limiter      ratelimit.Limiter

	// Shopify defaults to a live client built from Config.Shopify.
	Shopify handlers.ShopifyClient
}

// NewRouter wires services, handlers and middleware into a gin engine.
func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Config
	db, timeout := deps.DB, deps.StoreTimeout

	// Initialize services
	auditService := services.NewAuditService(db)
	catalogService := services.NewCatalogService(db, timeout)
	priceService := services.NewPriceService(db, timeout)
	submissionService := services.NewSubmissionService(db, timeout, priceService)
	shopService := services.NewShopService(db, timeout)

	adminAuth := middleware.NewAdminAuth(cfg)
	if !adminAuth.Configured() {
		logger.Get().Warn("ADMIN_PASSWORD is not set: admin endpoints will answer 503")
	}
	shopifyClient := deps.Shopify
	if shopifyClient == nil {
		shopifyClient = shopify.NewClient(cfg.Shopify, &http.Client{Timeout: 15 * time.Second})
	}

	// Initialize handlers
	publicHandler := handlers.NewPublicHandler(catalogService, priceService, submissionService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, auditService)
	priceHandler := handlers.NewPriceHandler(priceService, auditService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, auditService)
	sessionHandler := handlers.NewSessionHandler(adminAuth, auditService)
	shopifyHandler := handlers.NewShopifyHandler(shopifyClient, shopService, cfg.Host)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())
	router.NoRoute(middleware.NoRoute())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", handlers.Health)

	// Shopify install flow and webhooks
	router.GET("/auth", shopifyHandler.Install)
	router.GET("/auth/callback", shopifyHandler.Callback)
	webhooks := router.Group("/webhooks")
	webhooks.POST("/app_uninstalled", shopifyHandler.AppUninstalled)
	webhooks.POST("/customers_data_request", shopifyHandler.CustomersDataRequest)
	webhooks.POST("/customers_redact", shopifyHandler.CustomersRedact)

	api := router.Group("/api")
	api.GET("/health", handlers.Health)

	// Public routes
	public := api.Group("/public")
	public.GET("/structure", publicHandler.GetStructure)
	public.POST("/price", publicHandler.GetPrice)
	public.POST("/submit", middleware.RateLimit(deps.Limiter), publicHandler.Submit)

	api.POST("/admin/session", sessionHandler.CreateSession)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(adminAuth.Middleware())

	categories := admin.Group("/categories")
	categories.GET("", catalogHandler.ListCategories)
	categories.POST("", catalogHandler.CreateCategory)
	categories.GET("/:id", catalogHandler.GetCategory)
	categories.PUT("/:id", catalogHandler.UpdateCategory)
	categories.DELETE("/:id", catalogHandler.DeleteCategory)

	series := admin.Group("/series")
	series.GET("", catalogHandler.ListSeries)
	series.POST("", catalogHandler.CreateSeries)
	series.GET("/:id", catalogHandler.GetSeries)
	series.PUT("/:id", catalogHandler.UpdateSeries)
	series.DELETE("/:id", catalogHandler.DeleteSeries)

	deviceModels := admin.Group("/models")
	deviceModels.GET("", catalogHandler.ListModels)
	deviceModels.POST("", catalogHandler.CreateModel)
	deviceModels.GET("/:id", catalogHandler.GetModel)
	deviceModels.PUT("/:id", catalogHandler.UpdateModel)
	deviceModels.DELETE("/:id", catalogHandler.DeleteModel)

	injuries := admin.Group("/injuries")
	injuries.GET("", catalogHandler.ListInjuries)
	injuries.POST("", catalogHandler.CreateInjury)
	injuries.GET("/:id", catalogHandler.GetInjury)
	injuries.PUT("/:id", catalogHandler.UpdateInjury)
	injuries.DELETE("/:id", catalogHandler.DeleteInjury)

	prices := admin.Group("/prices")
	prices.GET("", priceHandler.ListPrices)
	prices.POST("", priceHandler.CreatePrice)
	prices.GET("/:id", priceHandler.GetPrice)
	prices.PUT("/:id", priceHandler.UpdatePrice)
	prices.DELETE("/:id", priceHandler.DeletePrice)

	submissions := admin.Group("/submissions")
	submissions.GET("", submissionHandler.ListSubmissions)
	submissions.GET("/count", submissionHandler.CountSubmissions)
	submissions.GET("/export", submissionHandler.ExportSubmissions)

	return router
}
