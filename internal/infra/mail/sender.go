package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var saleTemplate = template.Must(template.ParseFS(templatesFS, "templates/sale_notification.html"))

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer swaps the SMTP dialer.
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

func RenderSaleNotification(n SaleNotification) (string, error) {
	var body bytes.Buffer
	if err := saleTemplate.Execute(&body, n); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

func (s *EmailSender) SendSaleNotification(ctx context.Context, to string, n SaleNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := RenderSaleNotification(n)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Nova venda: %s (%s) 🎉", n.LeadName, n.Value))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
