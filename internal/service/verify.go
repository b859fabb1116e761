package service

import (
	"context"
	"fmt"

	"mailchat/internal/auth"
	"mailchat/internal/code"
	"mailchat/internal/config"
	"mailchat/internal/metrics"
	"mailchat/internal/models"
	"mailchat/internal/notify"
	"mailchat/internal/store"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const mailSubject = "Chat App - Verification Code"

// VerifyService 负责验证码的签发与兑换：邮箱身份从匿名到已验证的状态机。
type VerifyService struct {
	db       *gorm.DB
	creds    *store.CredentialStore
	notifier notify.Notifier
	cfg      config.Config
}

func NewVerifyService(db *gorm.DB, creds *store.CredentialStore, notifier notify.Notifier, cfg config.Config) *VerifyService {
	return &VerifyService{db: db, creds: creds, notifier: notifier, cfg: cfg}
}

// RequestResult 签发验证码的结果。Sent=false 时调用方应把 Code
// 展示给用户作为兜底投递通道。
type RequestResult struct {
	Sent bool
	Code string
}

// RequestCode 为邮箱签发新验证码：没见过的邮箱先建身份；
// 每次请求都覆盖旧码并强制 is_verified=false，旧码随即作废。
// 状态先落库再投递，投递失败不回滚，只降级为 Sent=false。
func (s *VerifyService) RequestCode(ctx context.Context, email string) (*RequestResult, error) {
	ident, err := s.creds.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		ident = &models.Identity{Email: email}
	}

	newCode, err := code.New()
	if err != nil {
		return nil, err
	}
	ident.PendingCode = &newCode
	ident.IsVerified = false
	if err := s.creds.Upsert(ident); err != nil {
		return nil, err
	}
	metrics.CodesIssued.Inc()

	body := fmt.Sprintf("Your Chat App verification code is: %s\n\nThis code will expire in 10 minutes.", newCode)
	if err := s.notifier.Send(ctx, email, mailSubject, body); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("verification mail delivery failed")
		metrics.MailSends.WithLabelValues("failure").Inc()
		return &RequestResult{Sent: false, Code: newCode}, nil
	}
	metrics.MailSends.WithLabelValues("success").Inc()
	return &RequestResult{Sent: true, Code: newCode}, nil
}

// VerifyResult 验证成功后建立的会话。
type VerifyResult struct {
	Token    string
	Identity models.Identity
}

// Verify 用提交的验证码兑换会话。验证码必须与待定码逐字符相等，
// 不做任何归一化。匹配失败时状态保持不变，同一个码可以重试，
// 直到被新的 RequestCode 覆盖。
func (s *VerifyService) Verify(ctx context.Context, email, submitted string) (*VerifyResult, error) {
	ident, err := s.creds.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if ident == nil || ident.PendingCode == nil {
		return nil, ErrNotFound
	}
	if submitted == "" || submitted != *ident.PendingCode {
		return nil, ErrInvalidCode
	}

	ident.IsVerified = true
	ident.PendingCode = nil
	if err := s.creds.Upsert(ident); err != nil {
		return nil, err
	}

	key, err := auth.NewSessionKey()
	if err != nil {
		return nil, err
	}
	if err := auth.CreateSession(s.db, ident.ID, key); err != nil {
		return nil, err
	}
	token, err := auth.SignSessionToken(ident.ID, key, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Token: token, Identity: *ident}, nil
}

// Logout 撤销会话。
func (s *VerifyService) Logout(sessionKey string) error {
	return auth.RevokeSession(s.db, sessionKey)
}
