package models

import "time"

const (
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

type Subscription struct {
	ID                 string     `json:"id" db:"id"`
	OrgID              string     `json:"org_id" db:"org_id"`
	Plan               string     `json:"plan" db:"plan"`
	Status             string     `json:"status" db:"status"`
	Seats              int        `json:"seats" db:"seats"`
	ExternalCustomerID string     `json:"-" db:"external_customer_id"`
	ExternalSubID      string     `json:"-" db:"external_sub_id"`
	PeriodStart        *time.Time `json:"period_start,omitempty" db:"period_start"`
	PeriodEnd          *time.Time `json:"period_end,omitempty" db:"period_end"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

type Invoice struct {
	ID         string    `json:"id" db:"id"`
	OrgID      string    `json:"org_id" db:"org_id"`
	ExternalID string    `json:"external_id" db:"external_id"`
	AmountDue  int64     `json:"amount_due" db:"amount_due"`
	Currency   string    `json:"currency" db:"currency"`
	Status     string    `json:"status" db:"status"`
	IssuedAt   time.Time `json:"issued_at" db:"issued_at"`
}

type CheckoutInput struct {
	Plan       string `json:"plan" validate:"required,oneof=starter team enterprise"`
	Seats      int    `json:"seats" validate:"omitempty,gt=0,lte=10000"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}
