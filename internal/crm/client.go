package crm

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sakkanal_backend/platform/config"
)

// Headers sent with every delivery.
const (
	HeaderSignature = "X-Sakkanal-Signature"
	HeaderEvent     = "X-Sakkanal-Event"
	HeaderDelivery  = "X-Sakkanal-Delivery"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookClient posts JSON payloads to integration endpoints.
type WebhookClient struct {
	httpClient *http.Client
	secret     []byte
}

// NewWebhookClient creates a client. A nil config uses the defaults and sends unsigned payloads.
func NewWebhookClient(cfg config.WebhookConfig) *WebhookClient {
	timeout := defaultWebhookTimeout
	var secret []byte
	if cfg != nil {
		if cfg.GetWebhookTimeout() > 0 {
			timeout = cfg.GetWebhookTimeout()
		}
		secret = []byte(cfg.GetWebhookSigningSecret())
	}
	return &WebhookClient{
		httpClient: &http.Client{Timeout: timeout},
		secret:     secret,
	}
}

// Sign returns the hex HMAC-SHA256 of body prefixed with "sha256=".
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Post sends the payload and returns the response status. Any non-2xx status is an error.
func (c *WebhookClient) Post(ctx context.Context, url, event, deliveryID string, payload any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Sakkanal-Webhook/1.0")
	req.Header.Set(HeaderEvent, event)
	req.Header.Set(HeaderDelivery, deliveryID)
	if len(c.secret) > 0 {
		req.Header.Set(HeaderSignature, Sign(c.secret, body))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
