package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"planivo-backend/internal/models"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrShiftNotFound    = errors.New("shift not found")
	ErrBadTransition    = errors.New("invalid schedule status transition")
)

const scheduleColumns = `s.id, s.department_id, s.name, s.starts_on, s.ends_on, s.status, s.created_at`

const orgScheduleJoin = `
	JOIN departments d ON d.id = s.department_id
	JOIN facilities f ON f.id = d.facility_id
	JOIN workspaces w ON w.id = f.workspace_id
`

func (s *Storage) CreateSchedule(ctx context.Context, orgID string, input models.ScheduleInput) (*models.Schedule, error) {
	startsOn, err := time.Parse("2006-01-02", input.StartsOn)
	if err != nil {
		return nil, err
	}
	endsOn, err := time.Parse("2006-01-02", input.EndsOn)
	if err != nil {
		return nil, err
	}
	if !endsOn.After(startsOn) {
		return nil, errors.New("ends_on must be after starts_on")
	}

	query := `
		INSERT INTO schedules (department_id, name, starts_on, ends_on, status)
		SELECT d.id, $3, $4, $5, 'draft'
		FROM departments d
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE d.id = $1 AND w.org_id = $2
		RETURNING id, department_id, name, starts_on, ends_on, status, created_at
	`

	var sched models.Schedule
	err = s.db.QueryRowContext(ctx, query,
		input.DepartmentID, orgID, input.Name, startsOn, endsOn,
	).Scan(&sched.ID, &sched.DepartmentID, &sched.Name, &sched.StartsOn, &sched.EndsOn, &sched.Status, &sched.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

func (s *Storage) GetSchedule(ctx context.Context, orgID, id string) (*models.Schedule, error) {
	var sched models.Schedule
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules s` + orgScheduleJoin + `
		WHERE s.id = $1 AND w.org_id = $2
	`
	if err := s.db.GetContext(ctx, &sched, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &sched, nil
}

func (s *Storage) ListSchedules(ctx context.Context, orgID, departmentID string) ([]models.Schedule, error) {
	schedules := make([]models.Schedule, 0)
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules s` + orgScheduleJoin + `
		WHERE w.org_id = $1 AND ($2 = '' OR s.department_id = $2::uuid)
		ORDER BY s.starts_on DESC
	`
	err := s.db.SelectContext(ctx, &schedules, query, orgID, departmentID)
	return schedules, err
}

// TransitionSchedule moves a schedule through draft -> published -> archived.
func (s *Storage) TransitionSchedule(ctx context.Context, orgID, id, to string) (*models.Schedule, error) {
	var from string
	switch to {
	case models.ScheduleStatusPublished:
		from = models.ScheduleStatusDraft
	case models.ScheduleStatusArchived:
		from = models.ScheduleStatusPublished
	default:
		return nil, ErrBadTransition
	}

	query := `
		UPDATE schedules s
		SET status = $3
		FROM departments d
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE s.id = $1 AND d.id = s.department_id AND w.org_id = $2 AND s.status = $4
		RETURNING s.id, s.department_id, s.name, s.starts_on, s.ends_on, s.status, s.created_at
	`

	var sched models.Schedule
	err := s.db.QueryRowContext(ctx, query, id, orgID, to, from).
		Scan(&sched.ID, &sched.DepartmentID, &sched.Name, &sched.StartsOn, &sched.EndsOn, &sched.Status, &sched.CreatedAt)
	if err == sql.ErrNoRows {
		// Distinguish missing schedule from a bad transition.
		if _, getErr := s.GetSchedule(ctx, orgID, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrBadTransition
	}
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

func (s *Storage) DeleteSchedule(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM schedules s
		USING departments d, facilities f, workspaces w
		WHERE s.id = $1 AND d.id = s.department_id AND f.id = d.facility_id
			AND w.id = f.workspace_id AND w.org_id = $2 AND s.status = 'draft'
	`, id, orgID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (s *Storage) CreateShift(ctx context.Context, orgID, scheduleID string, input models.ShiftInput) (*models.Shift, error) {
	if err := staffInOrg(ctx, s.db, orgID, input.StaffMemberID); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO shifts (schedule_id, staff_member_id, starts_at, ends_at, kind, note)
		SELECT s.id, $3, $4, $5, $6, $7
		FROM schedules s
		JOIN departments d ON d.id = s.department_id
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE s.id = $1 AND w.org_id = $2 AND s.status <> 'archived'
		RETURNING id, schedule_id, staff_member_id, starts_at, ends_at, kind, note, created_at
	`

	var shift models.Shift
	err := s.db.QueryRowContext(ctx, query,
		scheduleID, orgID, input.StaffMemberID, input.StartsAt, input.EndsAt, input.Kind, input.Note,
	).Scan(&shift.ID, &shift.ScheduleID, &shift.StaffMemberID, &shift.StartsAt, &shift.EndsAt, &shift.Kind, &shift.Note, &shift.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &shift, nil
}

func (s *Storage) ListShifts(ctx context.Context, orgID, scheduleID string) ([]models.Shift, error) {
	shifts := make([]models.Shift, 0)
	query := `
		SELECT sh.id, sh.schedule_id, sh.staff_member_id, sh.starts_at, sh.ends_at, sh.kind, sh.note, sh.created_at
		FROM shifts sh
		JOIN schedules s ON s.id = sh.schedule_id` + orgScheduleJoin + `
		WHERE sh.schedule_id = $1 AND w.org_id = $2
		ORDER BY sh.starts_at
	`
	err := s.db.SelectContext(ctx, &shifts, query, scheduleID, orgID)
	return shifts, err
}

func (s *Storage) DeleteShift(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM shifts sh
		USING schedules s, departments d, facilities f, workspaces w
		WHERE sh.id = $1 AND s.id = sh.schedule_id AND d.id = s.department_id
			AND f.id = d.facility_id AND w.id = f.workspace_id AND w.org_id = $2
			AND s.status <> 'archived'
	`, id, orgID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrShiftNotFound
	}
	return nil
}

// GetPublishedScheduleWithShifts loads a published schedule and its shifts
// for public share-token lookups. Drafts are never exposed.
func (s *Storage) GetPublishedScheduleWithShifts(ctx context.Context, scheduleID string) (*models.PublicSchedule, error) {
	var sched models.Schedule
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules s
		WHERE s.id = $1 AND s.status = 'published'
	`
	if err := s.db.GetContext(ctx, &sched, query, scheduleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	shifts := make([]models.Shift, 0)
	err := s.db.SelectContext(ctx, &shifts, `
		SELECT id, schedule_id, staff_member_id, starts_at, ends_at, kind, note, created_at
		FROM shifts
		WHERE schedule_id = $1
		ORDER BY starts_at
	`, scheduleID)
	if err != nil {
		return nil, err
	}

	return &models.PublicSchedule{Schedule: sched, Shifts: shifts}, nil
}

// PurgeArchivedSchedules hard-deletes schedules archived before the cutoff.
func (s *Storage) PurgeArchivedSchedules(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM schedules
		WHERE status = 'archived' AND created_at < $1
	`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
