package models

import "time"

type StaffMember struct {
	ID             string     `json:"id" db:"id"`
	DepartmentID   string     `json:"department_id" db:"department_id"`
	UserID         *string    `json:"user_id,omitempty" db:"user_id"`
	FirstName      string     `json:"first_name" db:"first_name"`
	LastName       string     `json:"last_name" db:"last_name"`
	Position       string     `json:"position" db:"position"`
	EmploymentRate float64    `json:"employment_rate" db:"employment_rate"`
	HiredOn        time.Time  `json:"hired_on" db:"hired_on"`
	TerminatedOn   *time.Time `json:"terminated_on,omitempty" db:"terminated_on"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

type StaffMemberInput struct {
	DepartmentID   string  `json:"department_id" validate:"required,uuid4"`
	UserID         *string `json:"user_id,omitempty" validate:"omitempty,uuid4"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Position       string  `json:"position" validate:"required,max=255"`
	EmploymentRate float64 `json:"employment_rate" validate:"gt=0,lte=1"`
	HiredOn        string  `json:"hired_on" validate:"required,datetime=2006-01-02"`
}
