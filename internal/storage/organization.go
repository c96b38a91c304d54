package storage

import (
	"context"
	"database/sql"
	"errors"

	"planivo-backend/internal/models"
)

var (
	ErrOrgNotFound = errors.New("organization not found")
	ErrSlugTaken   = errors.New("slug already taken")
)

func (s *Storage) CreateOrganization(ctx context.Context, input models.CreateOrganizationInput) (*models.Organization, error) {
	query := `
		INSERT INTO organizations (name, slug)
		VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`

	var org models.Organization
	err := s.db.QueryRowContext(ctx, query, input.Name, input.Slug).
		Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return &org, nil
}

func (s *Storage) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM organizations
		WHERE id = $1
	`

	var org models.Organization
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, err
	}

	return &org, nil
}

func (s *Storage) GetOrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM organizations
		WHERE slug = $1
	`

	var org models.Organization
	err := s.db.QueryRowContext(ctx, query, slug).
		Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, err
	}

	return &org, nil
}

func (s *Storage) UpdateOrganization(ctx context.Context, id string, input models.UpdateOrganizationInput) (*models.Organization, error) {
	query := `
		UPDATE organizations
		SET name = $2
		WHERE id = $1
		RETURNING id, name, slug, created_at
	`

	var org models.Organization
	err := s.db.QueryRowContext(ctx, query, id, input.Name).
		Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, err
	}

	return &org, nil
}
