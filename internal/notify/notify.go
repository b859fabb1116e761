package notify

import (
	"context"
	"time"

	"mailchat/internal/config"

	"github.com/rs/zerolog/log"
	gomail "github.com/wneessen/go-mail"
)

// SendTimeout 是单次投递的硬超时：慢的邮件服务不能拖垮整个请求。
const SendTimeout = 10 * time.Second

// Notifier 是外部邮件投递协作方。Send 对预期内的失败（超时、认证失败）
// 只返回 error，不允许 panic；调用方据此降级，不中断验证流程。
type Notifier interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

// SMTP 通过 SMTP 投递邮件。
type SMTP struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewSMTP(cfg config.Config) *SMTP {
	return &SMTP{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (n *SMTP) Send(ctx context.Context, toEmail, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return err
	}
	if err := msg.To(toEmail); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(n.host,
		gomail.WithPort(n.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.user),
		gomail.WithPassword(n.password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(SendTimeout),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, SendTimeout)
	defer cancel()
	return client.DialAndSendWithContext(ctx, msg)
}

// Log 在未配置 SMTP 凭据时使用：验证码直接写入日志，
// 投递视为成功（对应本地/演示环境）。
type Log struct{}

func (Log) Send(ctx context.Context, toEmail, subject, body string) error {
	log.Info().Str("to", toEmail).Str("subject", subject).Str("body", body).Msg("mail (log delivery)")
	return nil
}

// FromConfig 根据配置挑选投递后端：没有凭据就退回日志投递。
func FromConfig(cfg config.Config) Notifier {
	if cfg.SMTPUser == "" || cfg.SMTPPassword == "" {
		log.Warn().Msg("smtp credentials not set, verification codes will be logged")
		return Log{}
	}
	return NewSMTP(cfg)
}
