// Package mailer sends transactional emails through Resend.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ErrMailerNotConfigured is returned when no Resend API key is configured.
var ErrMailerNotConfigured = errors.New("mailer not configured")

// Template names an embedded email body.
type Template string

const (
	TemplateWelcome      Template = "welcome"
	TemplateVerification Template = "verification"
)

const (
	welcomeSubject      = "Welcome to OC Exchange!"
	verificationSubject = "Your OC Exchange verification code"
	verificationMinutes = 10
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client renders templates and hands them to Resend.
type Client struct {
	sender emailSender
	from   string
	logger *slog.Logger
}

// New creates a mail client. An empty apiKey yields a client whose sends fail with ErrMailerNotConfigured.
func New(apiKey, from string, logger *slog.Logger) *Client {
	c := &Client{from: from, logger: logger}
	if apiKey != "" {
		c.sender = resend.NewClient(apiKey).Emails
	}
	return c
}

// Configured reports whether the client can deliver emails.
func (c *Client) Configured() bool {
	return c.sender != nil
}

// SendWelcome greets a freshly registered user.
func (c *Client) SendWelcome(ctx context.Context, to, name string) error {
	return c.send(ctx, to, welcomeSubject, TemplateWelcome, map[string]any{"Name": name})
}

// SendVerificationCode emails a one-time verification code.
func (c *Client) SendVerificationCode(ctx context.Context, to, code string) error {
	return c.send(ctx, to, verificationSubject, TemplateVerification, map[string]any{
		"Code":         code,
		"ValidMinutes": verificationMinutes,
	})
}

func (c *Client) send(ctx context.Context, to, subject string, name Template, data map[string]any) error {
	if c.sender == nil {
		return ErrMailerNotConfigured
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return fmt.Errorf("render %s email: %w", name, err)
	}

	resp, err := c.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("send %s email: %w", name, err)
	}

	if resp != nil {
		c.logger.Debug("email sent", slog.String("template", string(name)), slog.String("id", resp.Id))
	}
	return nil
}
