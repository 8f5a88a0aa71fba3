package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	appnotification "github.com/waterworks/backend/internal/application/notification"
	"github.com/waterworks/backend/internal/domain/notification"
	"github.com/waterworks/backend/internal/infrastructure/config"
)

// VonageSender delivers SMS through the Vonage (Nexmo) REST gateway.
// Credentials come from the active alert settings per message; the
// endpoint and timeout are fixed at startup.
type VonageSender struct {
	endpoint string
	client   *http.Client
}

// NewVonageSender creates a sender bound to the configured gateway endpoint
func NewVonageSender(cfg config.SMSConfig) *VonageSender {
	return &VonageSender{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// vonageResponse is the subset of the gateway response we inspect
type vonageResponse struct {
	Messages []struct {
		Status    string `json:"status"`
		ErrorText string `json:"error-text"`
	} `json:"messages"`
}

// Send posts a single text message to the gateway. A non-zero message
// status in the response body counts as a failure even when the HTTP
// status is 200.
func (s *VonageSender) Send(ctx context.Context, settings *notification.AlertSettings, to, message string) error {
	form := url.Values{}
	form.Set("api_key", settings.APIKey)
	form.Set("api_secret", settings.Token)
	form.Set("from", settings.Sender)
	form.Set("to", to)
	form.Set("text", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway returned HTTP %d", resp.StatusCode)
	}

	var parsed vonageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("sms gateway returned unparseable response: %w", err)
	}
	for _, m := range parsed.Messages {
		if m.Status != "0" {
			return fmt.Errorf("sms gateway rejected message: status %s: %s", m.Status, m.ErrorText)
		}
	}
	return nil
}

// Ensure VonageSender implements the application sender interface
var _ appnotification.Sender = (*VonageSender)(nil)
