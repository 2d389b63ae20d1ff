package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/utkandevrim/ac/config"
	"github.com/utkandevrim/ac/internal/api/handler"
	"github.com/utkandevrim/ac/internal/api/middleware"
	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/response"
	"github.com/utkandevrim/ac/pkg/storage"
)

// Limits for the unauthenticated endpoints that are worth guessing at.
const (
	loginRateLimit  = 10
	verifyRateLimit = 30
	rateWindow      = time.Minute
)

// Setup builds the gin engine. limiter may be nil (in-process limiting only)
// and db may be nil in tests (health reports ok without a ping).
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	auth service.AuthService,
	limiter middleware.RateChecker,
	db *gorm.DB,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders(storage.PublicPrefix))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyMB << 20))

	r.Static(storage.PublicPrefix, cfg.Server.UploadDir)

	r.GET("/health", health(db))

	jwtAuth := middleware.JWTAuth(auth)
	admin := middleware.AdminOnly()

	api := r.Group("/api")
	api.GET("/health", health(db))

	// ── public ──
	api.POST("/auth/login", middleware.RateLimit(limiter, loginRateLimit, rateWindow), h.Auth.Login)
	api.POST("/auth/register", middleware.RateLimit(limiter, loginRateLimit, rateWindow), h.Auth.Register)
	api.GET("/verify-qr/:token", middleware.RateLimit(limiter, verifyRateLimit, rateWindow), h.Campaign.VerifyQR)

	api.GET("/campaigns", h.Campaign.List)
	api.GET("/campaigns/:id", h.Campaign.Get)
	api.GET("/events", h.Event.List)
	api.GET("/events/calendar.ics", h.Event.Calendar)
	api.GET("/events/:id", h.Event.Get)
	api.GET("/leadership", h.Content.ListLeaders)
	api.GET("/about", h.Content.GetAbout)
	api.GET("/homepage-content", h.Content.GetHomepage)

	// ── authenticated ──
	authorized := api.Group("")
	authorized.Use(jwtAuth)
	{
		authorized.GET("/auth/me", h.Auth.Me)
		authorized.POST("/auth/change-password", h.Auth.ChangePassword)
		authorized.POST("/auth/logout", h.Auth.Logout)

		users := authorized.Group("/users")
		{
			users.GET("", h.Member.List)
			users.POST("", admin, h.Member.Create)
			users.GET("/pending", admin, h.Member.ListPending)
			users.GET("/search/:query", h.Member.Search)
			users.GET("/:id", h.Member.Get)
			users.PUT("/:id", h.Member.Update) // self or admin, checked by the service
			users.DELETE("/:id", admin, h.Member.Delete)
			users.PUT("/:id/approve", admin, h.Member.Approve)
			users.PUT("/:id/admin", admin, h.Member.SetAdmin)
		}

		dues := authorized.Group("/dues")
		{
			dues.GET("/:id", h.Dues.ListForMember)
			dues.PUT("/:id/pay", admin, h.Dues.MarkPaid)
			dues.PUT("/:id/unpay", admin, h.Dues.MarkUnpaid)
		}

		authorized.POST("/campaigns", admin, h.Campaign.Create)
		authorized.PUT("/campaigns/:id", admin, h.Campaign.Update)
		authorized.DELETE("/campaigns/:id", admin, h.Campaign.Delete)
		authorized.POST("/campaigns/:id/generate-qr", h.Campaign.GenerateQR)

		authorized.POST("/events", admin, h.Event.Create)
		authorized.POST("/events/import", admin, h.Event.Import)
		authorized.PUT("/events/:id", admin, h.Event.Update)
		authorized.DELETE("/events/:id", admin, h.Event.Delete)
		authorized.POST("/events/:id/upload-photo", admin, h.Event.UploadPhoto)

		authorized.PUT("/leadership/:id", admin, h.Content.UpdateLeader)
		authorized.PUT("/about", admin, h.Content.UpdateAbout)
		authorized.PUT("/homepage-content", admin, h.Content.UpdateHomepage)

		authorized.POST("/upload", admin, h.Upload.Upload)
		authorized.GET("/export/dues", admin, h.Export.ExportDues)
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
				err = sqlDB.PingContext(ctx)
				cancel()
			}
			if err != nil {
				response.Error(c, http.StatusServiceUnavailable, 50300, "database unavailable")
				return
			}
		}
		response.OK(c, gin.H{"status": "ok"})
	}
}
