package storage

import (
	"testing"

	"planivo-backend/internal/models"
)

func TestMatchDepartmentTemplate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "exact category", input: "dental", want: "dental"},
		{name: "category inside name", input: "Smile Dental Clinic", want: "dental"},
		{name: "case insensitive", input: "PEDIATRIC CENTER WEST", want: "pediatric"},
		{name: "no match falls back", input: "Downtown Clinic", want: "general"},
		{name: "empty name falls back", input: "", want: "general"},
		{name: "longest match wins", input: "Dermatology and Dental Center", want: "dermatology"},
		{name: "radiology", input: "City Radiology Unit", want: "radiology"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchDepartmentTemplate(tt.input, DefaultCategories)
			if got.Name != tt.want {
				t.Fatalf("MatchDepartmentTemplate(%q) = %q, want %q", tt.input, got.Name, tt.want)
			}
			if len(got.Departments) == 0 {
				t.Fatalf("template %q has no departments", got.Name)
			}
		})
	}
}

func TestMatchDepartmentTemplateTieBreak(t *testing.T) {
	categories := []models.DepartmentCategory{
		{Name: "care", Departments: []string{"A"}},
		{Name: "cure", Departments: []string{"B"}},
	}

	// Both names match and have equal length; the earlier entry wins.
	got := MatchDepartmentTemplate("care and cure clinic", categories)
	if got.Name != "care" {
		t.Fatalf("expected declaration order to break the tie, got %q", got.Name)
	}
}

func TestMatchDepartmentTemplateNoGeneralEntry(t *testing.T) {
	categories := []models.DepartmentCategory{
		{Name: "dental", Departments: []string{"A"}},
	}

	got := MatchDepartmentTemplate("plain clinic", categories)
	if got.Name != "general" {
		t.Fatalf("expected synthetic general fallback, got %q", got.Name)
	}
}
