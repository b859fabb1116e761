package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mailchat/internal/config"
	"mailchat/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// SessionCookie 是浏览器端会话 cookie 的名称。
const SessionCookie = "session"

type Claims struct {
	IdentityID uint   `json:"uid"`
	SessionKey string `json:"sid"`
	jwt.RegisteredClaims
}

// NewSessionKey 生成会话的服务端随机键（32 字节 hex）。
func NewSessionKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SignSessionToken 把会话键签成 JWT。token 本身不设 exp：
// 会话的生命周期由服务端撤销与 cookie 有效期决定。
func SignSessionToken(identityID uint, sessionKey, secret string) (string, error) {
	claims := Claims{
		IdentityID: identityID,
		SessionKey: sessionKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(identityID), 10),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSessionToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// CreateSession 为已验证身份落一条会话记录。
func CreateSession(db *gorm.DB, identityID uint, sessionKey string) error {
	sess := models.Session{Token: sessionKey, IdentityID: identityID}
	return db.Create(&sess).Error
}

// LookupSession 按会话键取未撤销的会话。
func LookupSession(db *gorm.DB, sessionKey string) (*models.Session, error) {
	var sess models.Session
	err := db.Where("token = ? AND revoked_at IS NULL", sessionKey).First(&sess).Error
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// RevokeSession 撤销会话；之后携带该会话的请求一律按未认证处理。
func RevokeSession(db *gorm.DB, sessionKey string) error {
	now := time.Now()
	return db.Model(&models.Session{}).Where("token = ?", sessionKey).Update("revoked_at", &now).Error
}

// tokenFromRequest 从 Authorization 头或会话 cookie 取 token。
func tokenFromRequest(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	if tok, err := c.Cookie(SessionCookie); err == nil {
		return tok
	}
	return ""
}

// Middleware 是认证接口的显式前置检查：token 有效、会话未撤销、
// 身份存在且已验证，缺一不可。
func Middleware(cfg config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}
		claims, err := ParseSessionToken(tokenStr, cfg.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}
		sess, err := LookupSession(db, claims.SessionKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session revoked or unknown"})
			return
		}
		var ident models.Identity
		if err := db.First(&ident, sess.IdentityID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity not found"})
			return
		}
		if !ident.IsVerified {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity not verified"})
			return
		}
		c.Set("identity", ident)
		c.Set("sessionKey", claims.SessionKey)
		c.Next()
	}
}

// GetIdentity 返回中间件放入上下文的当前身份。
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	if v, ok := c.Get("identity"); ok {
		if ident, ok2 := v.(models.Identity); ok2 {
			return ident, true
		}
	}
	return models.Identity{}, false
}

// GetSessionKey 返回当前请求的会话键，用于登出。
func GetSessionKey(c *gin.Context) string {
	if v, ok := c.Get("sessionKey"); ok {
		if key, ok2 := v.(string); ok2 {
			return key
		}
	}
	return ""
}
