package models

import "time"

const (
	VacationStatusPending   = "pending"
	VacationStatusApproved  = "approved"
	VacationStatusRejected  = "rejected"
	VacationStatusCancelled = "cancelled"
)

type Vacation struct {
	ID            string     `json:"id" db:"id"`
	StaffMemberID string     `json:"staff_member_id" db:"staff_member_id"`
	StartsOn      time.Time  `json:"starts_on" db:"starts_on"`
	EndsOn        time.Time  `json:"ends_on" db:"ends_on"`
	Kind          string     `json:"kind" db:"kind"`
	Status        string     `json:"status" db:"status"`
	Note          string     `json:"note" db:"note"`
	DecidedBy     *string    `json:"decided_by,omitempty" db:"decided_by"`
	DecidedAt     *time.Time `json:"decided_at,omitempty" db:"decided_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

type VacationInput struct {
	StaffMemberID string `json:"staff_member_id" validate:"required,uuid4"`
	StartsOn      string `json:"starts_on" validate:"required,datetime=2006-01-02"`
	EndsOn        string `json:"ends_on" validate:"required,datetime=2006-01-02"`
	Kind          string `json:"kind" validate:"required,oneof=annual unpaid sick parental training"`
	Note          string `json:"note" validate:"max=500"`
}
