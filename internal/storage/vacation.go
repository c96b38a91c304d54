package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"planivo-backend/internal/models"
)

var (
	ErrVacationNotFound = errors.New("vacation not found")
	ErrVacationDecided  = errors.New("vacation already decided")
)

const vacationColumns = `v.id, v.staff_member_id, v.starts_on, v.ends_on, v.kind, v.status, v.note, v.decided_by, v.decided_at, v.created_at`

const orgVacationJoin = `
	JOIN staff_members sm ON sm.id = v.staff_member_id
	JOIN departments d ON d.id = sm.department_id
	JOIN facilities f ON f.id = d.facility_id
	JOIN workspaces w ON w.id = f.workspace_id
`

func (s *Storage) CreateVacation(ctx context.Context, orgID string, input models.VacationInput) (*models.Vacation, error) {
	startsOn, err := time.Parse("2006-01-02", input.StartsOn)
	if err != nil {
		return nil, err
	}
	endsOn, err := time.Parse("2006-01-02", input.EndsOn)
	if err != nil {
		return nil, err
	}
	if endsOn.Before(startsOn) {
		return nil, errors.New("ends_on must not be before starts_on")
	}

	query := `
		INSERT INTO vacations (staff_member_id, starts_on, ends_on, kind, status, note)
		SELECT sm.id, $3, $4, $5, 'pending', $6
		FROM staff_members sm
		JOIN departments d ON d.id = sm.department_id
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE sm.id = $1 AND w.org_id = $2
		RETURNING id, staff_member_id, starts_on, ends_on, kind, status, note, decided_by, decided_at, created_at
	`

	var v models.Vacation
	err = s.db.QueryRowContext(ctx, query,
		input.StaffMemberID, orgID, startsOn, endsOn, input.Kind, input.Note,
	).Scan(&v.ID, &v.StaffMemberID, &v.StartsOn, &v.EndsOn, &v.Kind, &v.Status, &v.Note, &v.DecidedBy, &v.DecidedAt, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Storage) GetVacation(ctx context.Context, orgID, id string) (*models.Vacation, error) {
	var v models.Vacation
	query := `
		SELECT ` + vacationColumns + `
		FROM vacations v` + orgVacationJoin + `
		WHERE v.id = $1 AND w.org_id = $2
	`
	if err := s.db.GetContext(ctx, &v, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVacationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (s *Storage) ListVacations(ctx context.Context, orgID, staffMemberID, status string) ([]models.Vacation, error) {
	vacations := make([]models.Vacation, 0)
	query := `
		SELECT ` + vacationColumns + `
		FROM vacations v` + orgVacationJoin + `
		WHERE w.org_id = $1
			AND ($2 = '' OR v.staff_member_id = $2::uuid)
			AND ($3 = '' OR v.status = $3)
		ORDER BY v.starts_on DESC
	`
	err := s.db.SelectContext(ctx, &vacations, query, orgID, staffMemberID, status)
	return vacations, err
}

// DecideVacation approves or rejects a pending request.
func (s *Storage) DecideVacation(ctx context.Context, orgID, id, status, deciderID string) (*models.Vacation, error) {
	if status != models.VacationStatusApproved && status != models.VacationStatusRejected {
		return nil, errors.New("decision must be approved or rejected")
	}

	query := `
		UPDATE vacations v
		SET status = $3, decided_by = $4, decided_at = NOW()
		FROM staff_members sm
		JOIN departments d ON d.id = sm.department_id
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE v.id = $1 AND sm.id = v.staff_member_id AND w.org_id = $2 AND v.status = 'pending'
		RETURNING v.id, v.staff_member_id, v.starts_on, v.ends_on, v.kind, v.status, v.note, v.decided_by, v.decided_at, v.created_at
	`

	var v models.Vacation
	err := s.db.QueryRowContext(ctx, query, id, orgID, status, deciderID).
		Scan(&v.ID, &v.StaffMemberID, &v.StartsOn, &v.EndsOn, &v.Kind, &v.Status, &v.Note, &v.DecidedBy, &v.DecidedAt, &v.CreatedAt)
	if err == sql.ErrNoRows {
		if _, getErr := s.GetVacation(ctx, orgID, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrVacationDecided
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CancelVacation lets the requester withdraw a pending request.
func (s *Storage) CancelVacation(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vacations v
		SET status = 'cancelled'
		FROM staff_members sm, departments d, facilities f, workspaces w
		WHERE v.id = $1 AND sm.id = v.staff_member_id AND d.id = sm.department_id
			AND f.id = d.facility_id AND w.id = f.workspace_id AND w.org_id = $2
			AND v.status = 'pending'
	`, id, orgID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrVacationNotFound
	}
	return nil
}
