package storage

import (
	"context"
	"database/sql"
	"errors"

	"planivo-backend/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

func (s *Storage) GetSubscription(ctx context.Context, orgID string) (*models.Subscription, error) {
	var sub models.Subscription
	query := `
		SELECT id, org_id, plan, status, seats, external_customer_id, external_sub_id,
			period_start, period_end, created_at
		FROM subscriptions
		WHERE org_id = $1
	`
	if err := s.db.GetContext(ctx, &sub, query, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// UpsertSubscription creates or replaces the org's subscription. One
// subscription per org.
func (s *Storage) UpsertSubscription(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (org_id, plan, status, seats, external_customer_id, external_sub_id, period_start, period_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (org_id)
		DO UPDATE SET plan = COALESCE(NULLIF(EXCLUDED.plan, ''), subscriptions.plan),
			status = EXCLUDED.status,
			seats = CASE WHEN EXCLUDED.seats > 0 THEN EXCLUDED.seats ELSE subscriptions.seats END,
			external_customer_id = COALESCE(EXCLUDED.external_customer_id, subscriptions.external_customer_id),
			external_sub_id = COALESCE(EXCLUDED.external_sub_id, subscriptions.external_sub_id),
			period_start = EXCLUDED.period_start, period_end = EXCLUDED.period_end
		RETURNING id, created_at
	`
	return s.db.QueryRowContext(ctx, query,
		sub.OrgID, sub.Plan, sub.Status, sub.Seats,
		nullIfEmpty(sub.ExternalCustomerID), nullIfEmpty(sub.ExternalSubID),
		sub.PeriodStart, sub.PeriodEnd,
	).Scan(&sub.ID, &sub.CreatedAt)
}

func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, externalSubID, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = $2 WHERE external_sub_id = $1
	`, externalSubID, status)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// GetOrgByExternalCustomer resolves a payment-provider customer id to the org.
func (s *Storage) GetOrgByExternalCustomer(ctx context.Context, customerID string) (string, error) {
	var orgID string
	err := s.db.QueryRowContext(ctx, `
		SELECT org_id FROM subscriptions WHERE external_customer_id = $1
	`, customerID).Scan(&orgID)
	if err == sql.ErrNoRows {
		return "", ErrSubscriptionNotFound
	}
	return orgID, err
}

func (s *Storage) UpsertInvoice(ctx context.Context, inv *models.Invoice) error {
	query := `
		INSERT INTO invoices (org_id, external_id, amount_due, currency, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id)
		DO UPDATE SET amount_due = EXCLUDED.amount_due, status = EXCLUDED.status
		RETURNING id
	`
	return s.db.QueryRowContext(ctx, query,
		inv.OrgID, inv.ExternalID, inv.AmountDue, inv.Currency, inv.Status, inv.IssuedAt,
	).Scan(&inv.ID)
}

func (s *Storage) ListInvoices(ctx context.Context, orgID string) ([]models.Invoice, error) {
	invoices := make([]models.Invoice, 0)
	query := `
		SELECT id, org_id, external_id, amount_due, currency, status, issued_at
		FROM invoices
		WHERE org_id = $1
		ORDER BY issued_at DESC
	`
	err := s.db.SelectContext(ctx, &invoices, query, orgID)
	return invoices, err
}
