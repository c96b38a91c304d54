package models

import "time"

const (
	ScheduleStatusDraft     = "draft"
	ScheduleStatusPublished = "published"
	ScheduleStatusArchived  = "archived"
)

type Schedule struct {
	ID           string    `json:"id" db:"id"`
	DepartmentID string    `json:"department_id" db:"department_id"`
	Name         string    `json:"name" db:"name"`
	StartsOn     time.Time `json:"starts_on" db:"starts_on"`
	EndsOn       time.Time `json:"ends_on" db:"ends_on"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type ScheduleInput struct {
	DepartmentID string `json:"department_id" validate:"required,uuid4"`
	Name         string `json:"name" validate:"required,min=2,max=255"`
	StartsOn     string `json:"starts_on" validate:"required,datetime=2006-01-02"`
	EndsOn       string `json:"ends_on" validate:"required,datetime=2006-01-02"`
}

const (
	ShiftKindRegular = "regular"
	ShiftKindOnCall  = "on_call"
	ShiftKindStandby = "standby"
)

type Shift struct {
	ID            string    `json:"id" db:"id"`
	ScheduleID    string    `json:"schedule_id" db:"schedule_id"`
	StaffMemberID string    `json:"staff_member_id" db:"staff_member_id"`
	StartsAt      time.Time `json:"starts_at" db:"starts_at"`
	EndsAt        time.Time `json:"ends_at" db:"ends_at"`
	Kind          string    `json:"kind" db:"kind"`
	Note          string    `json:"note" db:"note"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type ShiftInput struct {
	StaffMemberID string    `json:"staff_member_id" validate:"required,uuid4"`
	StartsAt      time.Time `json:"starts_at" validate:"required"`
	EndsAt        time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Kind          string    `json:"kind" validate:"required,oneof=regular on_call standby"`
	Note          string    `json:"note" validate:"max=500"`
}

// PublicSchedule is the read-only view served for share-token lookups.
type PublicSchedule struct {
	Schedule Schedule `json:"schedule"`
	Shifts   []Shift  `json:"shifts"`
}

// AvailabilityConflict reports one overlapping booking for a staff member.
type AvailabilityConflict struct {
	Kind       string    `json:"kind" msgpack:"kind"` // shift | vacation
	ResourceID string    `json:"resource_id" msgpack:"resource_id"`
	StartsAt   time.Time `json:"starts_at" msgpack:"starts_at"`
	EndsAt     time.Time `json:"ends_at" msgpack:"ends_at"`
}

// AvailabilityRequest is the msgpack request sent on the availability
// RPC subject by other services that need conflict checks.
type AvailabilityRequest struct {
	RequestID     string    `json:"request_id" msgpack:"request_id"`
	OrgID         string    `json:"org_id" msgpack:"org_id"`
	StaffMemberID string    `json:"staff_member_id" msgpack:"staff_member_id"`
	StartsAt      time.Time `json:"starts_at" msgpack:"starts_at"`
	EndsAt        time.Time `json:"ends_at" msgpack:"ends_at"`
}

type AvailabilityResponse struct {
	RequestID string                 `json:"request_id,omitempty" msgpack:"request_id"`
	Available bool                   `json:"available" msgpack:"available"`
	Conflicts []AvailabilityConflict `json:"conflicts" msgpack:"conflicts"`
	Error     string                 `json:"-" msgpack:"error,omitempty"`
}
