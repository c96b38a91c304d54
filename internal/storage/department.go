package storage

import (
	"context"
	"database/sql"
	"errors"

	"planivo-backend/internal/models"
)

var ErrDepartmentNotFound = errors.New("department not found")

const departmentColumns = `d.id, d.facility_id, d.name, d.category, d.min_staff, d.created_at`

// orgFacilityFilter joins a facility up the tenancy chain to its org.
const orgFacilityJoin = `
	JOIN facilities f ON f.id = d.facility_id
	JOIN workspaces w ON w.id = f.workspace_id
`

func (s *Storage) CreateDepartment(ctx context.Context, orgID string, input models.DepartmentInput) (*models.Department, error) {
	query := `
		INSERT INTO departments (facility_id, name, category, min_staff)
		SELECT f.id, $3, $4, $5
		FROM facilities f
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE f.id = $1 AND w.org_id = $2
		RETURNING id, facility_id, name, category, min_staff, created_at
	`

	var d models.Department
	err := s.db.QueryRowContext(ctx, query,
		input.FacilityID, orgID, input.Name, input.Category, input.MinStaff,
	).Scan(&d.ID, &d.FacilityID, &d.Name, &d.Category, &d.MinStaff, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Storage) GetDepartment(ctx context.Context, orgID, id string) (*models.Department, error) {
	var d models.Department
	query := `
		SELECT ` + departmentColumns + `
		FROM departments d` + orgFacilityJoin + `
		WHERE d.id = $1 AND w.org_id = $2
	`
	if err := s.db.GetContext(ctx, &d, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *Storage) ListDepartments(ctx context.Context, orgID, facilityID string) ([]models.Department, error) {
	departments := make([]models.Department, 0)
	query := `
		SELECT ` + departmentColumns + `
		FROM departments d` + orgFacilityJoin + `
		WHERE w.org_id = $1 AND ($2 = '' OR d.facility_id = $2::uuid)
		ORDER BY d.name
	`
	err := s.db.SelectContext(ctx, &departments, query, orgID, facilityID)
	return departments, err
}

func (s *Storage) UpdateDepartment(ctx context.Context, orgID, id string, input models.DepartmentInput) (*models.Department, error) {
	query := `
		UPDATE departments d
		SET name = $3, category = $4, min_staff = $5
		FROM facilities f
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE d.id = $1 AND f.id = d.facility_id AND w.org_id = $2
		RETURNING d.id, d.facility_id, d.name, d.category, d.min_staff, d.created_at
	`

	var d models.Department
	err := s.db.QueryRowContext(ctx, query, id, orgID, input.Name, input.Category, input.MinStaff).
		Scan(&d.ID, &d.FacilityID, &d.Name, &d.Category, &d.MinStaff, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Storage) DeleteDepartment(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM departments d
		USING facilities f, workspaces w
		WHERE d.id = $1 AND f.id = d.facility_id AND w.id = f.workspace_id AND w.org_id = $2
	`, id, orgID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}
