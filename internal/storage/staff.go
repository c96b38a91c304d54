package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"planivo-backend/internal/models"
)

var ErrStaffNotFound = errors.New("staff member not found")

const staffColumns = `sm.id, sm.department_id, sm.user_id, sm.first_name, sm.last_name, sm.position, sm.employment_rate, sm.hired_on, sm.terminated_on, sm.created_at`

const orgStaffJoin = `
	JOIN departments d ON d.id = sm.department_id
	JOIN facilities f ON f.id = d.facility_id
	JOIN workspaces w ON w.id = f.workspace_id
`

func (s *Storage) CreateStaffMember(ctx context.Context, orgID string, input models.StaffMemberInput) (*models.StaffMember, error) {
	hiredOn, err := time.Parse("2006-01-02", input.HiredOn)
	if err != nil {
		return nil, err
	}

	// Linked accounts must belong to the same org.
	if input.UserID != nil {
		if err := userInOrg(ctx, s.db, orgID, *input.UserID); err != nil {
			return nil, err
		}
	}

	query := `
		INSERT INTO staff_members (department_id, user_id, first_name, last_name, position, employment_rate, hired_on)
		SELECT d.id, $3, $4, $5, $6, $7, $8
		FROM departments d
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE d.id = $1 AND w.org_id = $2
		RETURNING id, department_id, user_id, first_name, last_name, position, employment_rate, hired_on, terminated_on, created_at
	`

	var sm models.StaffMember
	err = s.db.QueryRowContext(ctx, query,
		input.DepartmentID, orgID, input.UserID, input.FirstName, input.LastName,
		input.Position, input.EmploymentRate, hiredOn,
	).Scan(
		&sm.ID, &sm.DepartmentID, &sm.UserID, &sm.FirstName, &sm.LastName,
		&sm.Position, &sm.EmploymentRate, &sm.HiredOn, &sm.TerminatedOn, &sm.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sm, nil
}

func (s *Storage) GetStaffMember(ctx context.Context, orgID, id string) (*models.StaffMember, error) {
	var sm models.StaffMember
	query := `
		SELECT ` + staffColumns + `
		FROM staff_members sm` + orgStaffJoin + `
		WHERE sm.id = $1 AND w.org_id = $2
	`
	if err := s.db.GetContext(ctx, &sm, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &sm, nil
}

func (s *Storage) ListStaffMembers(ctx context.Context, orgID, departmentID string) ([]models.StaffMember, error) {
	staff := make([]models.StaffMember, 0)
	query := `
		SELECT ` + staffColumns + `
		FROM staff_members sm` + orgStaffJoin + `
		WHERE w.org_id = $1 AND ($2 = '' OR sm.department_id = $2::uuid)
		ORDER BY sm.last_name, sm.first_name
	`
	err := s.db.SelectContext(ctx, &staff, query, orgID, departmentID)
	return staff, err
}

func (s *Storage) UpdateStaffMember(ctx context.Context, orgID, id string, input models.StaffMemberInput) (*models.StaffMember, error) {
	hiredOn, err := time.Parse("2006-01-02", input.HiredOn)
	if err != nil {
		return nil, err
	}

	if input.UserID != nil {
		if err := userInOrg(ctx, s.db, orgID, *input.UserID); err != nil {
			return nil, err
		}
	}

	query := `
		UPDATE staff_members sm
		SET first_name = $3, last_name = $4, position = $5, employment_rate = $6, hired_on = $7, user_id = $8
		FROM departments d
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE sm.id = $1 AND d.id = sm.department_id AND w.org_id = $2
		RETURNING sm.id, sm.department_id, sm.user_id, sm.first_name, sm.last_name, sm.position, sm.employment_rate, sm.hired_on, sm.terminated_on, sm.created_at
	`

	var sm models.StaffMember
	err = s.db.QueryRowContext(ctx, query, id, orgID,
		input.FirstName, input.LastName, input.Position, input.EmploymentRate, hiredOn, input.UserID,
	).Scan(
		&sm.ID, &sm.DepartmentID, &sm.UserID, &sm.FirstName, &sm.LastName,
		&sm.Position, &sm.EmploymentRate, &sm.HiredOn, &sm.TerminatedOn, &sm.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sm, nil
}

// TerminateStaffMember marks the employment ended instead of deleting the
// record; shifts and vacations keep their history.
func (s *Storage) TerminateStaffMember(ctx context.Context, orgID, id string, on time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE staff_members sm
		SET terminated_on = $3
		FROM departments d
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE sm.id = $1 AND d.id = sm.department_id AND w.org_id = $2 AND sm.terminated_on IS NULL
	`, id, orgID, on)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// GetStaffMemberByUser resolves the staff record linked to a user account,
// scoped to that user's org.
func (s *Storage) GetStaffMemberByUser(ctx context.Context, orgID, userID string) (*models.StaffMember, error) {
	var sm models.StaffMember
	query := `
		SELECT ` + staffColumns + `
		FROM staff_members sm` + orgStaffJoin + `
		WHERE sm.user_id = $1 AND w.org_id = $2
	`
	if err := s.db.GetContext(ctx, &sm, query, userID, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &sm, nil
}
