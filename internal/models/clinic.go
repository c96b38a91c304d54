package models

import "time"

type Clinic struct {
	ID         string    `json:"id" db:"id"`
	FacilityID string    `json:"facility_id" db:"facility_id"`
	Name       string    `json:"name" db:"name"`
	Template   string    `json:"template" db:"template"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type ClinicInput struct {
	FacilityID string `json:"facility_id" validate:"required,uuid4"`
	Name       string `json:"name" validate:"required,min=2,max=255"`
}

// DepartmentCategory is a template for the departments a clinic of a
// given kind starts out with.
type DepartmentCategory struct {
	Name        string   `json:"name"`
	Departments []string `json:"departments"`
}
