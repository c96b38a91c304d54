package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrPaymentsNotConfigured = errors.New("payment provider is not configured")

// PaymentClient talks to a Stripe-compatible checkout API.
type PaymentClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPaymentClient(apiKey, baseURL string) *PaymentClient {
	return &PaymentClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *PaymentClient) Configured() bool {
	return c.apiKey != ""
}

type CheckoutSession struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	CustomerID string `json:"customer"`
}

type CheckoutParams struct {
	Plan       string
	Seats      int
	OrgID      string
	CustomerID string
	SuccessURL string
	CancelURL  string
}

// CreateCheckoutSession opens a hosted checkout page for a subscription.
func (c *PaymentClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	if !c.Configured() {
		return nil, ErrPaymentsNotConfigured
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", "price_"+params.Plan)
	form.Set("line_items[0][quantity]", strconv.Itoa(params.Seats))
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("client_reference_id", params.OrgID)
	// Echoed back on checkout.session.completed so the webhook can record
	// what was bought.
	form.Set("metadata[plan]", params.Plan)
	form.Set("metadata[seats]", strconv.Itoa(params.Seats))
	if params.CustomerID != "" {
		form.Set("customer", params.CustomerID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("checkout error (%d): %s", resp.StatusCode, string(body))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout response: %w", err)
	}
	return &session, nil
}

// WebhookEvent is the subset of provider webhook payloads the backend acts on.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID           string `json:"id"`
			Customer     string `json:"customer"`
			Subscription string `json:"subscription"`
			Status       string `json:"status"`
			AmountDue    int64  `json:"amount_due"`
			Currency     string `json:"currency"`
			ClientRef    string `json:"client_reference_id"`
			Metadata     struct {
				Plan  string `json:"plan"`
				Seats string `json:"seats"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	if event.Type == "" {
		return nil, errors.New("webhook event missing type")
	}
	return &event, nil
}
