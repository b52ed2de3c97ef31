package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"geomap/api/api/interceptor"
	"geomap/api/config"
	"geomap/api/metrics"
	"geomap/api/system"
)

const sessionName = "geomap"

// NewEngine 组装中间件与路由，业务接口挂在 /api 下
func NewEngine(cfg config.ServerConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	e := gin.New()
	e.Use(gin.Recovery(), interceptor.AccessLog())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", interceptor.VIEW_ID_HEADER},
		ExposeHeaders: []string{interceptor.VIEW_ID_HEADER},
		MaxAge:        12 * time.Hour,
	}
	// 只有显式列出的来源才允许携带 cookie；通配时跨域请求靠 X-View-Id 头维持会话
	if len(cfg.CorsOrigins) == 0 || (len(cfg.CorsOrigins) == 1 && cfg.CorsOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CorsOrigins
		corsCfg.AllowCredentials = true
	}
	e.Use(cors.New(corsCfg))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 86400, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	e.Use(sessions.Sessions(sessionName, store))

	e.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := system.PingDb(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "db: %v", err)
			return
		}
		c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", gin.WrapH(metrics.Handler()))

	Routers(e.Group("/api"))
	return e
}
