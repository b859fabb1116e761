package server

import (
	"net/http"
	"time"

	"mailchat/internal/auth"
	"mailchat/internal/blob"
	"mailchat/internal/config"
	"mailchat/internal/metrics"
	"mailchat/internal/mw"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupRouter 统一初始化 Gin 中间件与 REST API。
func SetupRouter(cfg config.Config, db *gorm.DB, h *Handler, blobs blob.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	// 控制单个 IP+路由的速率，轮询客户端留足余量
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))
	// multipart 超过 8MB 的部分落临时文件，大小上限由 blob 层执行
	r.MaxMultipartMemory = 8 << 20

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 验证码签发走更紧的纯 IP 限速，防止刷邮件
	api.POST("/auth/request-code", mw.RateLimitPerIP(rate.Every(3*time.Second), 5), h.RequestCode)
	api.POST("/auth/verify", h.SubmitCode)

	// 需要已验证会话的业务接口
	authed := api.Group("")
	authed.Use(auth.Middleware(cfg, db))

	authed.GET("/messages", h.ListMessages)
	authed.POST("/messages", h.PostMessage)
	authed.GET("/users", h.ListUsers)
	authed.POST("/auth/logout", h.Logout)

	// 本地 blob 后端时直接挂静态目录；S3 后端由对象存储自己出流量
	if local, ok := blobs.(*blob.Local); ok {
		r.Static("/uploads", local.Root())
	}

	return r
}
