package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"planivo-backend/internal/models"
)

var ErrClinicNotFound = errors.New("clinic not found")

// DefaultCategories are the built-in department templates a new clinic can
// start from. Order matters: it breaks ties between equally long matches.
var DefaultCategories = []models.DepartmentCategory{
	{Name: "general", Departments: []string{"Reception", "Administration"}},
	{Name: "dental", Departments: []string{"Reception", "Dental Surgery", "Hygiene", "Orthodontics"}},
	{Name: "pediatric", Departments: []string{"Reception", "Pediatrics", "Vaccination"}},
	{Name: "physiotherapy", Departments: []string{"Reception", "Physiotherapy", "Rehabilitation"}},
	{Name: "radiology", Departments: []string{"Reception", "X-Ray", "MRI", "Ultrasound"}},
	{Name: "dermatology", Departments: []string{"Reception", "Dermatology", "Laser Treatment"}},
}

// MatchDepartmentTemplate picks the category whose name appears in the
// clinic or facility name, case-insensitively. The longest matching
// category name wins; ties go to the earlier entry. No match falls back
// to the "general" template.
func MatchDepartmentTemplate(name string, categories []models.DepartmentCategory) models.DepartmentCategory {
	lowered := strings.ToLower(name)

	var best *models.DepartmentCategory
	bestLen := 0
	for i := range categories {
		cat := strings.ToLower(categories[i].Name)
		if cat == "" || !strings.Contains(lowered, cat) {
			continue
		}
		if len(cat) > bestLen {
			best = &categories[i]
			bestLen = len(cat)
		}
	}
	if best != nil {
		return *best
	}

	for i := range categories {
		if categories[i].Name == "general" {
			return categories[i]
		}
	}
	return models.DepartmentCategory{Name: "general"}
}

// CreateClinic creates the clinic and seeds its departments from the
// matched template in one transaction.
func (s *Storage) CreateClinic(ctx context.Context, orgID string, input models.ClinicInput) (*models.Clinic, error) {
	facility, err := s.GetFacility(ctx, orgID, input.FacilityID)
	if err != nil {
		return nil, err
	}

	template := MatchDepartmentTemplate(input.Name+" "+facility.Name, DefaultCategories)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var clinic models.Clinic
	err = tx.QueryRowContext(ctx, `
		INSERT INTO clinics (facility_id, name, template)
		VALUES ($1, $2, $3)
		RETURNING id, facility_id, name, template, created_at
	`, input.FacilityID, input.Name, template.Name).
		Scan(&clinic.ID, &clinic.FacilityID, &clinic.Name, &clinic.Template, &clinic.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, deptName := range template.Departments {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO departments (facility_id, name, category, min_staff)
			VALUES ($1, $2, $3, 0)
			ON CONFLICT DO NOTHING
		`, input.FacilityID, deptName, template.Name)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (s *Storage) GetClinic(ctx context.Context, orgID, id string) (*models.Clinic, error) {
	var clinic models.Clinic
	query := `
		SELECT c.id, c.facility_id, c.name, c.template, c.created_at
		FROM clinics c
		JOIN facilities f ON f.id = c.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE c.id = $1 AND w.org_id = $2
	`
	if err := s.db.GetContext(ctx, &clinic, query, id, orgID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}
	return &clinic, nil
}

func (s *Storage) ListClinics(ctx context.Context, orgID, facilityID string) ([]models.Clinic, error) {
	clinics := make([]models.Clinic, 0)
	query := `
		SELECT c.id, c.facility_id, c.name, c.template, c.created_at
		FROM clinics c
		JOIN facilities f ON f.id = c.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE w.org_id = $1 AND ($2 = '' OR c.facility_id = $2::uuid)
		ORDER BY c.name
	`
	err := s.db.SelectContext(ctx, &clinics, query, orgID, facilityID)
	return clinics, err
}

func (s *Storage) DeleteClinic(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM clinics c
		USING facilities f, workspaces w
		WHERE c.id = $1 AND f.id = c.facility_id AND w.id = f.workspace_id AND w.org_id = $2
	`, id, orgID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrClinicNotFound
	}
	return nil
}
