package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultEndpoint = "https://api.brevo.com/v3/smtp/email"

// Config for the Brevo transactional email API. Endpoint is overridable for
// tests.
type Config struct {
	APIKey      string
	SenderName  string
	SenderEmail string
	Timeout     time.Duration
	Endpoint    string
}

type Mailer struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Mailer {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Mailer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type sendRequest struct {
	Sender      party   `json:"sender"`
	To          []party `json:"to"`
	Subject     string  `json:"subject"`
	TextContent string  `json:"textContent"`
}

type party struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Send delivers one plain-text email. The client timeout bounds the attempt;
// any failure is returned to the caller, never retried here.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m.cfg.APIKey == "" {
		return errors.New("brevo api key not configured")
	}

	payload, err := json.Marshal(sendRequest{
		Sender:      party{Name: m.cfg.SenderName, Email: m.cfg.SenderEmail},
		To:          []party{{Email: to}},
		Subject:     subject,
		TextContent: body,
	})
	if err != nil {
		return errors.Wrap(err, "encoding email payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "building email request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", m.cfg.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending email")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("email rejected: %s", resp.Status)
	}

	return nil
}
