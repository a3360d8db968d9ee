package http

import (
	"github.com/gin-gonic/gin"

	"github.com/wenwu/saas-platform/pricing-service/internal/config"
	"github.com/wenwu/saas-platform/pricing-service/internal/storage"
)

type Server struct {
	router  *gin.Engine
	handler *Handler
	cfg     *config.Config
	store   storage.Store
}

func NewServer(cfg *config.Config, store storage.Store, handler *Handler) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(CORSMiddleware())

	s := &Server{
		router:  router,
		handler: handler,
		cfg:     cfg,
		store:   store,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check, includes storage reachability
	s.router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := s.store.Ping(c.Request.Context()); err != nil {
			status = "degraded"
		}
		c.JSON(200, gin.H{
			"status":  status,
			"service": "pricing-service",
			"storage": s.cfg.Storage.Type,
		})
	})

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "pricing-service",
			"docs":    "/api",
		})
	})

	api := s.router.Group("/api")
	{
		// Regions and catalogs
		api.GET("/regions", s.handler.GetRegions)
		api.GET("/regions/status", s.handler.GetRegionStatus)
		api.GET("/pricing", s.handler.GetPricing)
		api.GET("/pricing/metadata", s.handler.GetPricingMetadata)
		api.POST("/pricing/sync", s.handler.SyncPricing)
		api.POST("/pricing/sync-all", s.handler.SyncAllPricing)
		api.GET("/products", s.handler.GetProducts)

		// Categories
		api.GET("/categories", s.handler.GetCategories)
		api.GET("/categories/order", s.handler.GetCategoriesOrder)
		api.POST("/categories/sync", s.handler.SyncCategories)

		// Quotes
		api.GET("/quotes", s.handler.ListQuotes)
		api.POST("/quotes", s.handler.CreateQuote)
		api.GET("/quotes/stats", s.handler.GetQuoteStats)
		api.POST("/quotes/cleanup", s.handler.CleanupQuotes)
		api.GET("/quotes/:id", s.handler.GetQuote)
		api.PUT("/quotes/:id", s.handler.UpdateQuote)
		api.DELETE("/quotes/:id", s.handler.DeleteQuote)
		api.POST("/quotes/:id/verify-password", s.handler.VerifyQuotePassword)

		// Allotments
		api.GET("/allotments", s.handler.GetAllotments)
		api.GET("/allotments/metadata", s.handler.GetAllotmentsMetadata)
		api.GET("/allotments/product/:name", s.handler.GetAllotmentsForProduct)
		api.POST("/allotments/sync", s.handler.SyncAllotments)
		api.POST("/allotments/init", s.handler.InitAllotments)

		// Change history
		api.GET("/changes", s.handler.GetChanges)
		api.GET("/changes/pricing", s.handler.GetPricingChanges)
		api.GET("/changes/allotments", s.handler.GetAllotmentChanges)
		api.GET("/changes/summary", s.handler.GetChangesSummary)

		// Templates
		api.GET("/templates", s.handler.ListTemplates)
		api.GET("/templates/:id", s.handler.GetTemplate)
		api.POST("/templates/sync", s.handler.SyncTemplates)
	}
}

// Engine exposes the configured router, so the caller owns the http.Server
// and its shutdown.
func (s *Server) Engine() *gin.Engine {
	return s.router
}
