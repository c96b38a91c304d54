package storage

import (
	"context"
	"database/sql"
	"errors"

	"planivo-backend/internal/models"
)

var ErrFacilityNotFound = errors.New("facility not found")

const facilityColumns = `f.id, f.workspace_id, f.name, f.address, f.timezone, f.created_at`

func (s *Storage) CreateFacility(ctx context.Context, orgID string, input models.FacilityInput) (*models.Facility, error) {
	// The workspace lookup pins the new facility to the caller's org.
	query := `
		INSERT INTO facilities (workspace_id, name, address, timezone)
		SELECT w.id, $3, $4, $5
		FROM workspaces w
		WHERE w.id = $1 AND w.org_id = $2
		RETURNING id, workspace_id, name, address, timezone, created_at
	`

	var f models.Facility
	err := s.db.QueryRowContext(ctx, query,
		input.WorkspaceID, orgID, input.Name, input.Address, input.Timezone,
	).Scan(&f.ID, &f.WorkspaceID, &f.Name, &f.Address, &f.Timezone, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Storage) GetFacility(ctx context.Context, orgID, id string) (*models.Facility, error) {
	var f models.Facility
	query := `
		SELECT ` + facilityColumns + `
		FROM facilities f
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE f.id = $1 AND w.org_id = $2
	`
	if err := s.db.GetContext(ctx, &f, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (s *Storage) ListFacilities(ctx context.Context, orgID, workspaceID string) ([]models.Facility, error) {
	facilities := make([]models.Facility, 0)
	query := `
		SELECT ` + facilityColumns + `
		FROM facilities f
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE w.org_id = $1 AND ($2 = '' OR f.workspace_id = $2::uuid)
		ORDER BY f.name
	`
	err := s.db.SelectContext(ctx, &facilities, query, orgID, workspaceID)
	return facilities, err
}

func (s *Storage) UpdateFacility(ctx context.Context, orgID, id string, input models.FacilityInput) (*models.Facility, error) {
	query := `
		UPDATE facilities f
		SET name = $3, address = $4, timezone = $5
		FROM workspaces w
		WHERE f.id = $1 AND w.id = f.workspace_id AND w.org_id = $2
		RETURNING f.id, f.workspace_id, f.name, f.address, f.timezone, f.created_at
	`

	var f models.Facility
	err := s.db.QueryRowContext(ctx, query, id, orgID, input.Name, input.Address, input.Timezone).
		Scan(&f.ID, &f.WorkspaceID, &f.Name, &f.Address, &f.Timezone, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Storage) DeleteFacility(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM facilities f
		USING workspaces w
		WHERE f.id = $1 AND w.id = f.workspace_id AND w.org_id = $2
	`, id, orgID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrFacilityNotFound
	}
	return nil
}
