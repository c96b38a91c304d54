package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"planivo-backend/internal/models"
	"planivo-backend/internal/services"
)

const webhookBodyLimit = 1 << 20

// GetSubscription returns the organization's subscription
// @Summary Get subscription
// @Tags billing
// @Produce json
// @Success 200 {object} models.Subscription
// @Failure 404 {string} string "Subscription not found"
// @Security BearerAuth
// @Router /billing/subscription [get]
func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.store.GetSubscription(r.Context(), identity(r).OrgID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.store.ListInvoices(r.Context(), identity(r).OrgID)
	if err != nil {
		storageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

// CreateCheckoutSession opens a hosted checkout page for a plan
// @Summary Create checkout session
// @Tags billing
// @Accept json
// @Produce json
// @Param input body models.CheckoutInput true "Plan and redirect URLs"
// @Success 201 {object} services.CheckoutSession
// @Failure 503 {string} string "Payment provider is not configured"
// @Security BearerAuth
// @Router /billing/checkout [post]
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var input models.CheckoutInput
	if err := h.decodeValid(r, &input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := identity(r)

	// Seats default to the organization's active head count.
	if input.Seats == 0 {
		count, err := h.store.CountActiveUsers(r.Context(), id.OrgID)
		if err != nil {
			storageError(w, err)
			return
		}
		input.Seats = count
	}

	params := services.CheckoutParams{
		Plan:       input.Plan,
		Seats:      input.Seats,
		OrgID:      id.OrgID,
		SuccessURL: input.SuccessURL,
		CancelURL:  input.CancelURL,
	}
	if sub, err := h.store.GetSubscription(r.Context(), id.OrgID); err == nil {
		params.CustomerID = sub.ExternalCustomerID
	}

	session, err := h.payments.CreateCheckoutSession(r.Context(), params)
	if err != nil {
		if errors.Is(err, services.ErrPaymentsNotConfigured) {
			http.Error(w, "Payment provider is not configured", http.StatusServiceUnavailable)
			return
		}
		log.Printf("ERROR checkout session: %v", err)
		http.Error(w, "Checkout session failed", http.StatusBadGateway)
		return
	}

	h.recorder.Record(id.OrgID, id.UserID, "billing.checkout_started", "subscription", session.ID,
		map[string]string{"plan": input.Plan})
	respondJSON(w, http.StatusCreated, session)
}

// HandleBillingWebhook processes payment provider callbacks
// @Summary Billing webhook
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {string} string "Malformed webhook payload"
// @Router /billing/webhook [post]
func (h *Handler) HandleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	event, err := services.ParseWebhookEvent(body)
	if err != nil {
		http.Error(w, "Malformed webhook payload", http.StatusBadRequest)
		return
	}

	if err := h.applyWebhookEvent(r, event); err != nil {
		log.Printf("ERROR billing webhook %s: %v", event.Type, err)
		http.Error(w, "Webhook processing failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handler) applyWebhookEvent(r *http.Request, event *services.WebhookEvent) error {
	ctx := r.Context()
	obj := event.Data.Object

	switch event.Type {
	case "checkout.session.completed":
		seats, _ := strconv.Atoi(obj.Metadata.Seats)
		sub := &models.Subscription{
			OrgID:              obj.ClientRef,
			Plan:               obj.Metadata.Plan,
			Seats:              seats,
			Status:             models.SubscriptionStatusActive,
			ExternalCustomerID: obj.Customer,
			ExternalSubID:      obj.Subscription,
		}
		if err := h.store.UpsertSubscription(ctx, sub); err != nil {
			return err
		}
		h.recorder.Record(obj.ClientRef, "", "billing.subscription_activated",
			"subscription", obj.Subscription, nil)

	case "customer.subscription.updated", "customer.subscription.deleted":
		status := obj.Status
		if event.Type == "customer.subscription.deleted" {
			status = models.SubscriptionStatusCanceled
		}
		if err := h.store.UpdateSubscriptionStatus(ctx, obj.ID, status); err != nil {
			return err
		}

	case "invoice.paid", "invoice.payment_failed":
		orgID, err := h.store.GetOrgByExternalCustomer(ctx, obj.Customer)
		if err != nil {
			return err
		}
		status := "paid"
		if event.Type == "invoice.payment_failed" {
			status = "failed"
		}
		invoice := &models.Invoice{
			OrgID:      orgID,
			ExternalID: obj.ID,
			AmountDue:  obj.AmountDue,
			Currency:   obj.Currency,
			Status:     status,
			IssuedAt:   time.Now(),
		}
		if err := h.store.UpsertInvoice(ctx, invoice); err != nil {
			return err
		}

	default:
		log.Printf("INFO billing webhook ignored: %s", event.Type)
	}
	return nil
}
