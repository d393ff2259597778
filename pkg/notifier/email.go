package notifier

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/config"
	"gopkg.in/gomail.v2"
)

// Message is the payload handed to a Transport.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPTransport delivers through an SMTP relay with STARTTLS.
type SMTPTransport struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPTransport(cfg config.EmailConfig, businessName string) *SMTPTransport {
	m := gomail.NewMessage()
	return &SMTPTransport{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   m.FormatAddress(cfg.Sender(), businessName),
	}
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Email renders an order summary and sends it to the shop owner.
type Email struct {
	transport Transport
	to        string
	business  string
	location  *time.Location
}

func NewEmail(transport Transport, to, business string, loc *time.Location) *Email {
	return &Email{
		transport: transport,
		to:        to,
		business:  business,
		location:  loc,
	}
}

type emailView struct {
	OrderSnapshot
	Business   string
	Email      string
	TotalText  string
	DialNumber string
	ReceivedAt string
}

func (e *Email) Notify(ctx context.Context, order OrderSnapshot) error {
	msg, err := e.Render(order)
	if err != nil {
		return err
	}
	return e.transport.Send(ctx, msg)
}

// Render builds the message without sending it.
func (e *Email) Render(order OrderSnapshot) (Message, error) {
	view := emailView{
		OrderSnapshot: order,
		Business:      e.business,
		Email:         order.CustomerEmail,
		TotalText:     order.Total.StringFixed(2),
		DialNumber:    digitsOnly(order.CustomerPhone),
		ReceivedAt:    order.CreatedAt.In(e.location).Format("Jan 2, 2006 3:04 PM MST"),
	}
	if view.Email == "" {
		view.Email = "Not provided"
	}

	var text bytes.Buffer
	if err := textBody.Execute(&text, view); err != nil {
		return Message{}, fmt.Errorf("failed to render text body: %w", err)
	}

	var html bytes.Buffer
	if err := htmlBody.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("failed to render html body: %w", err)
	}

	return Message{
		To:      e.to,
		Subject: fmt.Sprintf("New Order #%d - $%s - %s", order.ID, view.TotalText, order.CustomerName),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

var textBody = texttemplate.Must(texttemplate.New("text").Parse(`NEW ORDER #{{.ID}}
===========================

CUSTOMER INFORMATION
- Name: {{.CustomerName}}
- Phone: {{.CustomerPhone}}
- Email: {{.Email}}

ORDER DETAILS
- Items: {{.Items}}
- Total: ${{.TotalText}}
{{if .Notes}}
Notes: {{.Notes}}
{{end}}
===========================
Call the customer to confirm pickup!

{{.Business}}
Time: {{.ReceivedAt}}
`))

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px;">
  <div style="max-width: 500px; margin: 0 auto; background: white; border-radius: 12px;">
    <div style="background: #960909; color: white; padding: 24px; text-align: center;">
      <h1 style="margin: 0;">New Order!</h1>
      <div>Order #{{.ID}}</div>
    </div>
    <div style="padding: 24px;">
      <h3>Customer Information</h3>
      <p>Name: <strong>{{.CustomerName}}</strong></p>
      <p>Phone: <strong>{{.CustomerPhone}}</strong></p>
      <p>Email: <strong>{{.Email}}</strong></p>
      <h3>Order Details</h3>
      <p>Items: <strong>{{.Items}}</strong></p>
      {{if .Notes}}<div style="background: #fff3cd; padding: 12px; border-radius: 8px;"><strong>Customer Notes:</strong><br>{{.Notes}}</div>{{end}}
      <p style="font-size: 24px; color: #960909;">Total: <strong>${{.TotalText}}</strong></p>
      <a href="tel:{{.DialNumber}}" style="display: block; background: #960909; color: white; padding: 16px; text-align: center; border-radius: 8px;">Call Customer Now</a>
    </div>
    <div style="text-align: center; padding: 16px; color: #999; font-size: 12px;">
      {{.Business}}<br><small>Order received at {{.ReceivedAt}}</small>
    </div>
  </div>
</body>
</html>
`))
