package models

import "time"

const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

type Task struct {
	ID           string     `json:"id" db:"id"`
	DepartmentID string     `json:"department_id" db:"department_id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	AssigneeID   *string    `json:"assignee_id,omitempty" db:"assignee_id"`
	DueOn        *time.Time `json:"due_on,omitempty" db:"due_on"`
	Priority     int        `json:"priority" db:"priority"`
	Status       string     `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type TaskInput struct {
	DepartmentID string  `json:"department_id" validate:"required,uuid4"`
	Title        string  `json:"title" validate:"required,min=2,max=255"`
	Description  string  `json:"description" validate:"max=2000"`
	AssigneeID   *string `json:"assignee_id,omitempty" validate:"omitempty,uuid4"`
	DueOn        *string `json:"due_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority     int     `json:"priority" validate:"gte=0,lte=3"`
}

type UpdateTaskInput struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	AssigneeID  *string `json:"assignee_id,omitempty" validate:"omitempty,uuid4"`
	DueOn       *string `json:"due_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority    *int    `json:"priority,omitempty" validate:"omitempty,gte=0,lte=3"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=open in_progress done"`
}
