package router

import (
	"time"

	"pricemaster/internal/cache"
	"pricemaster/internal/config"
	"pricemaster/internal/handler"
	"pricemaster/internal/middleware"
	"pricemaster/internal/repository"
	"pricemaster/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMin, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	itemRepo := repository.NewItemRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	// ── Cost memoization cache (injected, never a singleton) ────────────────
	costCache := cache.NewNoop()
	if cfg.CostCacheTTLSeconds > 0 {
		costCache = cache.NewRedisCostCache(rdb, time.Duration(cfg.CostCacheTTLSeconds)*time.Second)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	costSvc := service.NewCostService(
		itemRepo, priceRepo, costCache,
		cfg.LaborPctDecimal(), cfg.OverheadPctDecimal(), cfg.MaxBOMDepth,
	)
	importSvc := service.NewImportService(itemRepo, priceRepo, cfg.MaxImportRows)
	duplicateSvc := service.NewDuplicateService(priceRepo)
	cleanupSvc := service.NewCleanupService(duplicateSvc, priceRepo)
	priceSvc := service.NewPriceService(itemRepo, priceRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	costsH := handler.NewCostsHandler(costSvc)
	importsH := handler.NewImportsHandler(importSvc)
	duplicatesH := handler.NewDuplicatesHandler(duplicateSvc, cleanupSvc)
	pricesH := handler.NewPricesHandler(priceSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.POST("/costs/calculate", costsH.Calculate)

		v1.POST("/prices", pricesH.Create)
		v1.POST("/prices/import", importsH.Import)
		v1.GET("/prices/duplicates", duplicatesH.Scan)
		v1.POST("/prices/duplicates/cleanup", duplicatesH.Cleanup)

		v1.GET("/items/:id/prices", pricesH.ListByItem)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
