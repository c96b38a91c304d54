package storage

import (
	"context"
	"database/sql"
	"errors"

	"planivo-backend/internal/models"
)

var ErrWorkspaceNotFound = errors.New("workspace not found")

func (s *Storage) CreateWorkspace(ctx context.Context, orgID string, input models.WorkspaceInput) (*models.Workspace, error) {
	query := `
		INSERT INTO workspaces (org_id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING id, org_id, name, slug, created_at
	`

	var ws models.Workspace
	err := s.db.QueryRowContext(ctx, query, orgID, input.Name, input.Slug).
		Scan(&ws.ID, &ws.OrgID, &ws.Name, &ws.Slug, &ws.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &ws, nil
}

func (s *Storage) GetWorkspace(ctx context.Context, orgID, id string) (*models.Workspace, error) {
	var ws models.Workspace
	query := `SELECT id, org_id, name, slug, created_at FROM workspaces WHERE id = $1 AND org_id = $2`
	if err := s.db.GetContext(ctx, &ws, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (s *Storage) ListWorkspaces(ctx context.Context, orgID string) ([]models.Workspace, error) {
	workspaces := make([]models.Workspace, 0)
	query := `SELECT id, org_id, name, slug, created_at FROM workspaces WHERE org_id = $1 ORDER BY name`
	err := s.db.SelectContext(ctx, &workspaces, query, orgID)
	return workspaces, err
}

func (s *Storage) UpdateWorkspace(ctx context.Context, orgID, id string, input models.WorkspaceInput) (*models.Workspace, error) {
	query := `
		UPDATE workspaces
		SET name = $3, slug = $4
		WHERE id = $1 AND org_id = $2
		RETURNING id, org_id, name, slug, created_at
	`

	var ws models.Workspace
	err := s.db.QueryRowContext(ctx, query, id, orgID, input.Name, input.Slug).
		Scan(&ws.ID, &ws.OrgID, &ws.Name, &ws.Slug, &ws.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrWorkspaceNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &ws, nil
}

func (s *Storage) DeleteWorkspace(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrWorkspaceNotFound
	}
	return nil
}
