package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ocexchange/internal/config"
)

// Module provides the Resend mail client.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) *Client {
	client := New(p.Config.ResendAPIKey, p.Config.MailFrom, p.Logger)
	if !client.Configured() {
		p.Logger.Warn("RESEND_API_KEY is not set, emails will not be delivered")
	}
	return client
}
