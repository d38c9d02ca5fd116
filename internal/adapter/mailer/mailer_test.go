package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/ocexchange/internal/config"
)

type senderStub struct {
	requests []*resend.SendEmailRequest
	err      error
}

func (s *senderStub) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	s.requests = append(s.requests, params)
	if s.err != nil {
		return nil, s.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSendWithoutAPIKey(t *testing.T) {
	client := New("", "OC Exchange <noreply@example.com>", discardLogger())
	assert.False(t, client.Configured())
	assert.ErrorIs(t, client.SendWelcome(context.Background(), "a@example.com", "A"), ErrMailerNotConfigured)
	assert.ErrorIs(t, client.SendVerificationCode(context.Background(), "a@example.com", "123456"), ErrMailerNotConfigured)
}

func TestSendWelcome(t *testing.T) {
	sender := &senderStub{}
	client := &Client{sender: sender, from: "OC Exchange <noreply@example.com>", logger: discardLogger()}

	require.NoError(t, client.SendWelcome(context.Background(), "alice@example.com", "Alice"))
	require.Len(t, sender.requests, 1)

	req := sender.requests[0]
	assert.Equal(t, "OC Exchange <noreply@example.com>", req.From)
	assert.Equal(t, []string{"alice@example.com"}, req.To)
	assert.Equal(t, "Welcome to OC Exchange!", req.Subject)
	assert.Contains(t, req.Html, "Welcome to OC Exchange, Alice!")
}

func TestSendWelcomeWithoutName(t *testing.T) {
	sender := &senderStub{}
	client := &Client{sender: sender, from: "from@example.com", logger: discardLogger()}

	require.NoError(t, client.SendWelcome(context.Background(), "bob@example.com", ""))
	assert.Contains(t, sender.requests[0].Html, "Welcome to OC Exchange!")
}

func TestSendVerificationCodeEscapesHTML(t *testing.T) {
	sender := &senderStub{}
	client := &Client{sender: sender, from: "from@example.com", logger: discardLogger()}

	require.NoError(t, client.SendVerificationCode(context.Background(), "c@example.com", "<b>1</b>"))
	req := sender.requests[0]
	assert.Equal(t, "Your OC Exchange verification code", req.Subject)
	assert.Contains(t, req.Html, "&lt;b&gt;1&lt;/b&gt;")
	assert.Contains(t, req.Html, "valid for 10&nbsp;minutes")
}

func TestSendPropagatesProviderError(t *testing.T) {
	sender := &senderStub{err: errors.New("rate limited")}
	client := &Client{sender: sender, from: "from@example.com", logger: discardLogger()}

	err := client.SendVerificationCode(context.Background(), "c@example.com", "123456")
	require.Error(t, err)
	assert.ErrorIs(t, err, sender.err)
}

func TestSendThroughResendAPI(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"4ef9a417-02e9-4d39-ad75-9611e0fcc33c"}`))
	}))
	defer srv.Close()

	rc := resend.NewClient("re_test")
	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	rc.BaseURL = baseURL

	client := &Client{sender: rc.Emails, from: "from@example.com", logger: discardLogger()}
	require.NoError(t, client.SendWelcome(context.Background(), "dana@example.com", "Dana"))
	assert.Equal(t, "Welcome to OC Exchange!", payload["subject"])
}

func TestModuleProvidesClient(t *testing.T) {
	var client *Client
	app := fxtest.New(t,
		fx.Supply(&config.Config{MailFrom: "from@example.com"}),
		fx.Provide(discardLogger),
		Module,
		fx.Populate(&client),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, client)
	assert.False(t, client.Configured())
}
