package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"checkout-funnel/internal/config"
)

// SubscriberClient forwards captured email/name pairs to the mailing-list
// provider. A misconfigured client reports itself via Configured so callers
// can warn-and-skip instead of failing the buyer-facing flow.
type SubscriberClient interface {
	Configured() bool
	Subscribe(ctx context.Context, email, name string) error
}

type mailerLiteClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
	groupID    string
	logger     *slog.Logger
}

func NewMailerLiteClient(cfg *config.MailerLite, logger *slog.Logger) SubscriberClient {
	return &mailerLiteClientImpl{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseApiURL: cfg.BaseAPIURL,
		apiKey:     cfg.APIKey,
		groupID:    cfg.GroupID,
		logger:     logger,
	}
}

func (c *mailerLiteClientImpl) Configured() bool {
	return c.apiKey != "" && c.groupID != ""
}

type subscribeRequest struct {
	Email          string   `json:"email"`
	Name           string   `json:"name,omitempty"`
	Groups         []string `json:"groups"`
	Autoresponders bool     `json:"autoresponders"`
}

func (c *mailerLiteClientImpl) Subscribe(ctx context.Context, email, name string) error {
	reqBody := subscribeRequest{
		Email:  email,
		Name:   name,
		Groups: []string{c.groupID},
		// Triggers the provider-side welcome sequence with the freebie.
		Autoresponders: true,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal subscribe request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/subscribers", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create subscribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-MailerLite-ApiKey", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailerlite request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Warn("MailerLite API returned non-2xx status",
			"status_code", resp.StatusCode,
			"body", string(raw))
		return fmt.Errorf("mailerlite error %d", resp.StatusCode)
	}

	c.logger.Info("MailerLite subscription successful",
		"email", email,
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}
