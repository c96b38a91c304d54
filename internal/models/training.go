package models

import "time"

type TrainingEvent struct {
	ID         string    `json:"id" db:"id"`
	FacilityID string    `json:"facility_id" db:"facility_id"`
	Title      string    `json:"title" db:"title"`
	StartsAt   time.Time `json:"starts_at" db:"starts_at"`
	EndsAt     time.Time `json:"ends_at" db:"ends_at"`
	Capacity   int       `json:"capacity" db:"capacity"`
	Registered int       `json:"registered" db:"registered"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type TrainingEventInput struct {
	FacilityID string    `json:"facility_id" validate:"required,uuid4"`
	Title      string    `json:"title" validate:"required,min=2,max=255"`
	StartsAt   time.Time `json:"starts_at" validate:"required"`
	EndsAt     time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Capacity   int       `json:"capacity" validate:"gt=0,lte=10000"`
}

const (
	AttendanceRegistered = "registered"
	AttendanceAttended   = "attended"
	AttendanceNoShow     = "no_show"
)

type TrainingAttendee struct {
	TrainingEventID string    `json:"training_event_id" db:"training_event_id"`
	StaffMemberID   string    `json:"staff_member_id" db:"staff_member_id"`
	Attendance      string    `json:"attendance" db:"attendance"`
	RegisteredAt    time.Time `json:"registered_at" db:"registered_at"`
}
