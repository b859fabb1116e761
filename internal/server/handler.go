package server

import (
	"errors"
	"net/http"
	"strings"

	"mailchat/internal/auth"
	"mailchat/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	verifySvc *service.VerifyService
	chatSvc   *service.ChatService
}

func NewHandler(verifySvc *service.VerifyService, chatSvc *service.ChatService) *Handler {
	return &Handler{verifySvc: verifySvc, chatSvc: chatSvc}
}

// RequestCode 处理验证码签发请求。投递失败不算错误：
// 响应里带上验证码，由前端展示作为兜底通道。
func (h *Handler) RequestCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" form:"email"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	if len(req.Email) > 120 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}

	result, err := h.verifySvc.RequestCode(c.Request.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("request code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue code"})
		return
	}
	if !result.Sent {
		c.JSON(http.StatusOK, gin.H{"sent": false, "code": result.Code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

// SubmitCode 处理验证码兑换请求，成功建立会话并种 cookie。
func (h *Handler) SubmitCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" form:"email"`
		Code  string `json:"code" form:"code"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := h.verifySvc.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no outstanding verification for email"})
		case errors.Is(err, service.ErrInvalidCode):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid verification code"})
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("verify code")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		}
		return
	}
	// cookie 有效期是协作方层面的过期机制，核心不设会话过期
	c.SetCookie(auth.SessionCookie, result.Token, 30*24*3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": result.Token, "email": result.Identity.Email})
}

// PostMessage 处理发消息请求：multipart 里 content 与 file 二选一。
func (h *Handler) PostMessage(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var upload *service.Upload
	if fh, err := c.FormFile("file"); err == nil && fh.Filename != "" {
		f, err := fh.Open()
		if err != nil {
			log.Error().Err(err).Str("filename", fh.Filename).Msg("open upload")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer f.Close()
		upload = &service.Upload{Filename: fh.Filename, Size: fh.Size, Reader: f}
	}

	dto, err := h.chatSvc.Post(c.Request.Context(), ident, c.PostForm("content"), upload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message cannot be empty"})
		case errors.Is(err, service.ErrUnsupportedFileType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "file type not allowed"})
		case errors.Is(err, service.ErrPayloadTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
		default:
			log.Error().Err(err).Uint("owner_id", ident.ID).Msg("post message")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post message"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": dto})
}

// ListMessages 返回全量消息（提交序），逐条标注 is_own。
func (h *Handler) ListMessages(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	msgs, err := h.chatSvc.List(ident.ID)
	if err != nil {
		log.Error().Err(err).Msg("list messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// ListUsers 返回全部已验证邮箱，作为"在线用户"的近似。
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.chatSvc.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Logout 撤销当前会话并清掉 cookie。
func (h *Handler) Logout(c *gin.Context) {
	key := auth.GetSessionKey(c)
	if key == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.verifySvc.Logout(key); err != nil {
		log.Error().Err(err).Msg("logout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
