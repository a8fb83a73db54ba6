package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient talks to the provider's REST API with a bearer credential.
type HTTPClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewHTTPClient builds a provider client for the given API base URL and
// access token.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreatePreference registers a checkout preference with the provider.
func (c *HTTPClient) CreatePreference(ctx context.Context, req PreferenceRequest) (Preference, error) {
	now := time.Now().UTC()
	body := map[string]any{
		"items": req.Items,
		"payer": map[string]string{
			"name":  req.PayerName,
			"email": req.PayerEmail,
		},
		"external_reference": req.ExternalReference,
		"back_urls": map[string]string{
			"success": req.SuccessURL,
			"failure": req.FailureURL,
			"pending": req.PendingURL,
		},
		"auto_return":      "approved",
		"notification_url": req.NotificationURL,
		"expires":          true,
		"expiration_date_from": now.Format(time.RFC3339),
		"expiration_date_to":   now.Add(time.Duration(req.ExpiresInMinutes) * time.Minute).Format(time.RFC3339),
	}
	var pref Preference
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", body, &pref); err != nil {
		return Preference{}, err
	}
	return pref, nil
}

// GetPayment fetches the authoritative state of a payment by provider id.
func (c *HTTPClient) GetPayment(ctx context.Context, paymentID string) (PaymentInfo, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &raw); err != nil {
		return PaymentInfo{}, err
	}
	var parsed struct {
		ID                json.Number `json:"id"`
		Status            string      `json:"status"`
		ExternalReference string      `json:"external_reference"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return PaymentInfo{}, fmt.Errorf("decode payment: %w", err)
	}
	return PaymentInfo{
		ID:                parsed.ID.String(),
		Status:            parsed.Status,
		ExternalReference: parsed.ExternalReference,
		Raw:               string(raw),
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway %s %s: status %d: %s", method, path, resp.StatusCode, bs)
	}
	if out != nil {
		return json.Unmarshal(bs, out)
	}
	return nil
}
