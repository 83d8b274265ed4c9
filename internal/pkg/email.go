package pkg

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer 发送登录邮件
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &SMTPMailer{cfg: cfg, dialer: d}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// LogMailer 仅演示模式使用：正文含登录链接和验证码，只在 debug 级别输出
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	log := m.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "mail not sent, smtp disabled", "to", to, "subject", subject)
	log.DebugContext(ctx, "unsent mail body", "to", to, "body", htmlBody)
	return nil
}

func LoginLinkHTML(name, link, code string, ttl time.Duration) string {
	greeting := "Hi there,"
	if name != "" {
		greeting = "Hi " + html.EscapeString(name) + ","
	}
	return fmt.Sprintf(`<p>%s</p><p><a href="%s">Sign in to the Clubhouse</a></p><p>Or enter this code: <b style="font-size:18px;">%s</b></p><p>The link and code expire in %d minutes.</p>`,
		greeting, html.EscapeString(link), code, int(ttl.Minutes()))
}
