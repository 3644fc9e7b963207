package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clawledge/internal/auth"
	"clawledge/internal/cases"
	"clawledge/internal/config"
	"clawledge/internal/middleware"
	"clawledge/internal/submissions"
)

type deps struct {
	db    *sql.DB
	store submissions.Store
	log   *zap.Logger
	now   func() time.Time
}

func newRouter(cfg *config.Config, d deps) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(d.log), middleware.CORS(cfg.Server.AllowedOrigin))
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, err
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Database.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := d.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	// Cases (public, read-only mirror)
	casesHandler := cases.NewHandler(cases.NewRepo(d.db))
	casesHandler.RegisterRoutes(router.Group("/cases"))

	// Submissions (public, rate limited)
	limiter := submissions.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	if d.now != nil {
		limiter.WithClock(d.now)
	}
	subHandler := submissions.NewHandler(d.store, limiter, d.log)
	if d.now != nil {
		subHandler.Now = d.now
	}
	subHandler.RegisterRoutes(router.Group("/submissions"))

	// Admin
	tokens := auth.TokenService{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.JWTIssuer,
		Duration: cfg.Auth.JWTDuration,
		Now:      d.now,
	}
	admin := auth.Admin{Username: cfg.Auth.AdminUser, PasswordHash: cfg.Auth.AdminPasswordHash}
	if admin.PasswordHash == "" {
		d.log.Warn("no admin password hash configured; admin login disabled")
	}
	auth.NewHandler(admin, tokens, d.log).RegisterRoutes(router.Group("/admin"))

	protected := router.Group("/admin/submissions")
	protected.Use(auth.AuthMiddleware(tokens, d.log))
	reviewer := &submissions.Reviewer{
		Store:    d.store,
		DataPath: cfg.Data.Cases,
		Now:      d.now,
		Logger:   d.log,
	}
	submissions.NewAdminHandler(reviewer).RegisterRoutes(protected)

	return router, nil
}
