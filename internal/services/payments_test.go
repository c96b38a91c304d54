package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "subscription", r.Form.Get("mode"))
		assert.Equal(t, "price_team", r.Form.Get("line_items[0][price]"))
		assert.Equal(t, "25", r.Form.Get("line_items[0][quantity]"))
		assert.Equal(t, "org-1", r.Form.Get("client_reference_id"))
		assert.Equal(t, "team", r.Form.Get("metadata[plan]"))
		assert.Equal(t, "25", r.Form.Get("metadata[seats]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_1","url":"https://pay.example/cs_1","customer":"cus_9"}`))
	}))
	defer server.Close()

	client := NewPaymentClient("sk_test_123", server.URL)
	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		Plan:       "team",
		Seats:      25,
		OrgID:      "org-1",
		SuccessURL: "https://app.example/ok",
		CancelURL:  "https://app.example/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", session.ID)
	assert.Equal(t, "https://pay.example/cs_1", session.URL)
	assert.Equal(t, "cus_9", session.CustomerID)
}

func TestCreateCheckoutSessionNotConfigured(t *testing.T) {
	client := NewPaymentClient("", "https://api.example")
	assert.False(t, client.Configured())

	_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{Plan: "starter"})
	assert.ErrorIs(t, err, ErrPaymentsNotConfigured)
}

func TestCreateCheckoutSessionProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid plan"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewPaymentClient("sk_test_123", server.URL)
	_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{Plan: "bogus", Seats: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{
		"type": "invoice.paid",
		"data": {"object": {
			"id": "in_1",
			"customer": "cus_9",
			"amount_due": 4200,
			"currency": "chf"
		}}
	}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "invoice.paid", event.Type)
	assert.Equal(t, "in_1", event.Data.Object.ID)
	assert.Equal(t, "cus_9", event.Data.Object.Customer)
	assert.Equal(t, int64(4200), event.Data.Object.AmountDue)
}

func TestParseWebhookEventCheckoutMetadata(t *testing.T) {
	body := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"customer": "cus_9",
			"subscription": "sub_7",
			"client_reference_id": "org-1",
			"metadata": {"plan": "team", "seats": "25"}
		}}
	}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "org-1", event.Data.Object.ClientRef)
	assert.Equal(t, "team", event.Data.Object.Metadata.Plan)
	assert.Equal(t, "25", event.Data.Object.Metadata.Seats)
}

func TestParseWebhookEventInvalid(t *testing.T) {
	_, err := ParseWebhookEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseWebhookEvent([]byte(`{"data":{}}`))
	assert.Error(t, err)
}
