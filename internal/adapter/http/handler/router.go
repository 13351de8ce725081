package handler

import (
	"asset-marketplace/internal/adapter/http/middleware"
	redisStore "asset-marketplace/internal/adapter/storage/redis"
	"asset-marketplace/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	AssetSvc       ports.AssetService
	MarketSvc      ports.MarketplaceService
	QuerySvc       ports.QueryService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	// --- Asset records ---
	assetHandler := NewAssetHandler(deps.AssetSvc)
	assets := v1.Group("/assets", jwtAuth)
	{
		assets.POST("", rl("assets"), assetHandler.Mint)
		assets.GET("/:id", rl("queries"), assetHandler.Get)
		assets.PATCH("/:id", rl("assets"), assetHandler.Update)
		assets.DELETE("/:id", rl("assets"), assetHandler.Burn)
	}

	// --- Exchange engine ---
	marketHandler := NewMarketplaceHandler(deps.MarketSvc)
	queryHandler := NewQueryHandler(deps.QuerySvc)
	market := v1.Group("/market", jwtAuth)
	{
		market.POST("/listings", rl("market"), marketHandler.CreateListing)
		market.DELETE("/listings/:asset_id", rl("market"), marketHandler.CancelListing)
		market.POST("/listings/:asset_id/buy", rl("market"), marketHandler.Buy)
		market.POST("/payouts/claim", rl("market"), marketHandler.ClaimPayout)
		market.POST("/fees/withdraw", rl("market"), marketHandler.WithdrawFees)

		market.GET("/listings/:asset_id", rl("queries"), queryHandler.GetListing)
		market.GET("/stats", rl("queries"), queryHandler.GetStats)
		market.GET("/payouts/pending", rl("queries"), queryHandler.GetPendingPayout)
	}

	return r
}
