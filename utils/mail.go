package utils

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/dendyfood/dendyfood-api/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var orderEmailTemplate = template.Must(template.ParseFS(templatesFS, "templates/new_order.html"))

type MailConfig struct {
	From     string
	Password string
	SMTPHost string
	Address  string
	To       string
}

func (c MailConfig) Enabled() bool {
	return c.From != "" && c.Address != "" && c.To != ""
}

type EmailData struct {
	Title        string
	Lines        []string
	TotalLabel   string
	Total        string
	PaymentLabel string
	Payment      string
	CreatedAt    string
}

// sendMailFunc is swapped in tests.
var sendMailFunc = smtp.SendMail

// MailNotifier e-mails every new order to the restaurant.
type MailNotifier struct {
	cfg MailConfig
}

func NewMailNotifier(cfg MailConfig) *MailNotifier {
	return &MailNotifier{cfg: cfg}
}

func (m *MailNotifier) NotifyOrder(_ context.Context, order models.Order) error {
	summary := SummarizeOrder(order)
	return SendEmail(m.cfg, summary.Title, EmailData{
		Title:        summary.Title,
		Lines:        summary.Lines,
		TotalLabel:   summary.TotalLabel,
		Total:        summary.Total,
		PaymentLabel: summary.PaymentLabel,
		Payment:      summary.Payment,
		CreatedAt:    summary.CreatedAt,
	})
}

func SendEmail(cfg MailConfig, emailSubject string, data EmailData) error {
	var body bytes.Buffer
	if err := orderEmailTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		cfg.From,
		cfg.To,
		emailSubject,
		body.String(),
	)

	var auth smtp.Auth
	if cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.From, cfg.Password, cfg.SMTPHost)
	}

	if err := sendMailFunc(cfg.Address, auth, cfg.From, []string{cfg.To}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
