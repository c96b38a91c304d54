package models

import "time"

type Workspace struct {
	ID        string    `json:"id" db:"id"`
	OrgID     string    `json:"org_id" db:"org_id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type WorkspaceInput struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	Slug string `json:"slug" validate:"required,min=2,max=63"`
}

type Facility struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	Timezone    string    `json:"timezone" db:"timezone"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type FacilityInput struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid4"`
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Address     string `json:"address" validate:"max=500"`
	Timezone    string `json:"timezone" validate:"required"`
}

type Department struct {
	ID         string    `json:"id" db:"id"`
	FacilityID string    `json:"facility_id" db:"facility_id"`
	Name       string    `json:"name" db:"name"`
	Category   string    `json:"category" db:"category"`
	MinStaff   int       `json:"min_staff" db:"min_staff"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type DepartmentInput struct {
	FacilityID string `json:"facility_id" validate:"required,uuid4"`
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Category   string `json:"category" validate:"max=100"`
	MinStaff   int    `json:"min_staff" validate:"gte=0,lte=1000"`
}
