package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"planivo-backend/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

const taskColumns = `t.id, t.department_id, t.title, t.description, t.assignee_id, t.due_on, t.priority, t.status, t.created_at`

const orgTaskJoin = `
	JOIN departments d ON d.id = t.department_id
	JOIN facilities f ON f.id = d.facility_id
	JOIN workspaces w ON w.id = f.workspace_id
`

func parseDueOn(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	due, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

func (s *Storage) CreateTask(ctx context.Context, orgID string, input models.TaskInput) (*models.Task, error) {
	dueOn, err := parseDueOn(input.DueOn)
	if err != nil {
		return nil, err
	}

	// Assignees must be staff members in the caller's org.
	if input.AssigneeID != nil {
		if err := staffInOrg(ctx, s.db, orgID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	query := `
		INSERT INTO tasks (department_id, title, description, assignee_id, due_on, priority, status)
		SELECT d.id, $3, $4, $5, $6, $7, 'open'
		FROM departments d
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE d.id = $1 AND w.org_id = $2
		RETURNING id, department_id, title, description, assignee_id, due_on, priority, status, created_at
	`

	var t models.Task
	err = s.db.QueryRowContext(ctx, query,
		input.DepartmentID, orgID, input.Title, input.Description, input.AssigneeID, dueOn, input.Priority,
	).Scan(&t.ID, &t.DepartmentID, &t.Title, &t.Description, &t.AssigneeID, &t.DueOn, &t.Priority, &t.Status, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Storage) GetTask(ctx context.Context, orgID, id string) (*models.Task, error) {
	var t models.Task
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t` + orgTaskJoin + `
		WHERE t.id = $1 AND w.org_id = $2
	`
	if err := s.db.GetContext(ctx, &t, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Storage) ListTasks(ctx context.Context, orgID, departmentID, status string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t` + orgTaskJoin + `
		WHERE w.org_id = $1
			AND ($2 = '' OR t.department_id = $2::uuid)
			AND ($3 = '' OR t.status = $3)
		ORDER BY t.priority DESC, t.due_on NULLS LAST, t.created_at
	`
	err := s.db.SelectContext(ctx, &tasks, query, orgID, departmentID, status)
	return tasks, err
}

func (s *Storage) UpdateTask(ctx context.Context, orgID, id string, input models.UpdateTaskInput) (*models.Task, error) {
	dueOn, err := parseDueOn(input.DueOn)
	if err != nil {
		return nil, err
	}

	if input.AssigneeID != nil {
		if err := staffInOrg(ctx, s.db, orgID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	query := `
		UPDATE tasks t
		SET title = COALESCE($3, title),
			description = COALESCE($4, description),
			assignee_id = COALESCE($5, assignee_id),
			due_on = COALESCE($6, due_on),
			priority = COALESCE($7, priority),
			status = COALESCE($8, status)
		FROM departments d
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE t.id = $1 AND d.id = t.department_id AND w.org_id = $2
		RETURNING t.id, t.department_id, t.title, t.description, t.assignee_id, t.due_on, t.priority, t.status, t.created_at
	`

	var t models.Task
	err = s.db.QueryRowContext(ctx, query, id, orgID,
		input.Title, input.Description, input.AssigneeID, dueOn, input.Priority, input.Status,
	).Scan(&t.ID, &t.DepartmentID, &t.Title, &t.Description, &t.AssigneeID, &t.DueOn, &t.Priority, &t.Status, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Storage) DeleteTask(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM tasks t
		USING departments d, facilities f, workspaces w
		WHERE t.id = $1 AND d.id = t.department_id AND f.id = d.facility_id
			AND w.id = f.workspace_id AND w.org_id = $2
	`, id, orgID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
