// Package email - отправка писем через SMTP (gomail).
package email

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/gomail.v2"

	"safehome_backend/internal/logger"
)

// Attachment - вложение в памяти, без временных файлов на диске
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message - письмо в терминах домена, до привязки к конкретному SMTP
type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Provider абстрагирует отправку, чтобы сервисы тестировались без SMTP
type Provider interface {
	Send(msg Message) error
}

// SMTPProvider - реальная отправка через gomail
type SMTPProvider struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPProvider(host string, port int, username, password, from string) *SMTPProvider {
	return &SMTPProvider{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (p *SMTPProvider) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	for _, att := range msg.Attachments {
		att := att
		m.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(att.Data)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}),
		)
	}

	start := time.Now()
	err := p.dialer.DialAndSend(m)
	logger.UpstreamLog("smtp", "send", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("не удалось отправить письмо %s: %w", msg.To, err)
	}
	return nil
}
