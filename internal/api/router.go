package api

import (
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"tote-builder-backend/config"
	"tote-builder-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, push *config.PushConfig, handler *Handler) *gin.Engine {
	r := gin.Default()
	r.Use(mw.CORS(cfg.AllowedOrigins))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)
	submitLimiter := mw.RateLimiter(mw.PerMinute(cfg.SubmitLimitPerMin), 1, cfg.RequestIPHeader)

	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	r.GET("/healthz", handler.GetHealth)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Sessions(cfg.SessionSecret, cfg.SessionTTL))
	{
		api.GET("/catalog", caching, handler.GetCatalog)
		api.POST("/estimate", handler.PostEstimate)

		api.POST("/session", handler.CreateSession)

		sess := api.Group("/session", mw.SessionRequired())
		{
			sess.GET("", handler.GetSession)
			sess.DELETE("", handler.EndSession)
			sess.PATCH("/build", handler.PatchBuild)
			sess.POST("/items", handler.AddItem)
			sess.DELETE("/items/:id", handler.RemoveItem)
			sess.PUT("/step", handler.PutStep)
			sess.PATCH("/request", handler.PatchRequest)
			sess.POST("/submit", submitLimiter, handler.Submit)
		}

		ops := api.Group("", mw.OperatorKey(push.OperatorKey))
		{
			ops.GET("/subscriptions", handler.GetSubscription)
			ops.PUT("/subscriptions", handler.PutSubscription)
			ops.DELETE("/subscriptions", handler.DeleteSubscription)
		}
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
