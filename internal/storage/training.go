package storage

import (
	"context"
	"database/sql"
	"errors"

	"planivo-backend/internal/models"
)

var (
	ErrTrainingNotFound  = errors.New("training event not found")
	ErrTrainingFull      = errors.New("training event is full")
	ErrAlreadyRegistered = errors.New("staff member already registered")
	ErrNotRegistered     = errors.New("staff member not registered")
)

const trainingColumns = `t.id, t.facility_id, t.title, t.starts_at, t.ends_at, t.capacity,
	(SELECT COUNT(*) FROM training_attendees a WHERE a.training_event_id = t.id) AS registered,
	t.created_at`

const orgTrainingJoin = `
	JOIN facilities f ON f.id = t.facility_id
	JOIN workspaces w ON w.id = f.workspace_id
`

func (s *Storage) CreateTrainingEvent(ctx context.Context, orgID string, input models.TrainingEventInput) (*models.TrainingEvent, error) {
	query := `
		INSERT INTO training_events (facility_id, title, starts_at, ends_at, capacity)
		SELECT f.id, $3, $4, $5, $6
		FROM facilities f
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE f.id = $1 AND w.org_id = $2
		RETURNING id, facility_id, title, starts_at, ends_at, capacity, created_at
	`

	var t models.TrainingEvent
	err := s.db.QueryRowContext(ctx, query,
		input.FacilityID, orgID, input.Title, input.StartsAt, input.EndsAt, input.Capacity,
	).Scan(&t.ID, &t.FacilityID, &t.Title, &t.StartsAt, &t.EndsAt, &t.Capacity, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Storage) GetTrainingEvent(ctx context.Context, orgID, id string) (*models.TrainingEvent, error) {
	var t models.TrainingEvent
	query := `
		SELECT ` + trainingColumns + `
		FROM training_events t` + orgTrainingJoin + `
		WHERE t.id = $1 AND w.org_id = $2
	`
	if err := s.db.GetContext(ctx, &t, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Storage) ListTrainingEvents(ctx context.Context, orgID, facilityID string) ([]models.TrainingEvent, error) {
	events := make([]models.TrainingEvent, 0)
	query := `
		SELECT ` + trainingColumns + `
		FROM training_events t` + orgTrainingJoin + `
		WHERE w.org_id = $1 AND ($2 = '' OR t.facility_id = $2::uuid)
		ORDER BY t.starts_at
	`
	err := s.db.SelectContext(ctx, &events, query, orgID, facilityID)
	return events, err
}

// RegisterAttendee adds a staff member to a training event, enforcing
// capacity inside a transaction with the event row locked.
func (s *Storage) RegisterAttendee(ctx context.Context, orgID, eventID, staffMemberID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var capacity, registered int
	err = tx.QueryRowContext(ctx, `
		SELECT t.capacity,
			(SELECT COUNT(*) FROM training_attendees a WHERE a.training_event_id = t.id)
		FROM training_events t
		JOIN facilities f ON f.id = t.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE t.id = $1 AND w.org_id = $2
		FOR UPDATE OF t
	`, eventID, orgID).Scan(&capacity, &registered)
	if err == sql.ErrNoRows {
		return ErrTrainingNotFound
	}
	if err != nil {
		return err
	}
	if registered >= capacity {
		return ErrTrainingFull
	}

	if err := staffInOrg(ctx, tx, orgID, staffMemberID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO training_attendees (training_event_id, staff_member_id, attendance)
		VALUES ($1, $2, 'registered')
	`, eventID, staffMemberID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRegistered
		}
		if isForeignKeyViolation(err) {
			return ErrStaffNotFound
		}
		return err
	}

	return tx.Commit()
}

func (s *Storage) UnregisterAttendee(ctx context.Context, orgID, eventID, staffMemberID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM training_attendees a
		USING training_events t, facilities f, workspaces w
		WHERE a.training_event_id = $1 AND a.staff_member_id = $2
			AND t.id = a.training_event_id AND f.id = t.facility_id
			AND w.id = f.workspace_id AND w.org_id = $3
	`, eventID, staffMemberID, orgID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotRegistered
	}
	return nil
}

func (s *Storage) ListAttendees(ctx context.Context, orgID, eventID string) ([]models.TrainingAttendee, error) {
	attendees := make([]models.TrainingAttendee, 0)
	query := `
		SELECT a.training_event_id, a.staff_member_id, a.attendance, a.registered_at
		FROM training_attendees a
		JOIN training_events t ON t.id = a.training_event_id` + orgTrainingJoin + `
		WHERE a.training_event_id = $1 AND w.org_id = $2
		ORDER BY a.registered_at
	`
	err := s.db.SelectContext(ctx, &attendees, query, eventID, orgID)
	return attendees, err
}
