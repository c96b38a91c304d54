package auth

import "testing"

func TestModulesForRole(t *testing.T) {
	tests := []struct {
		role    string
		count   int
		sample  string
		missing string
	}{
		{role: RoleOrganizationAdmin, count: 12, sample: ModuleAdmin},
		{role: RoleWorkspaceAdmin, count: 9, sample: ModuleWorkspaces, missing: ModuleAdmin},
		{role: RoleFacilityManager, count: 8, sample: ModuleClinics, missing: ModuleWorkspaces},
		{role: RoleDepartmentHead, count: 6, sample: ModuleStaff, missing: ModuleClinics},
		{role: RoleStaff, count: 5, sample: ModuleSchedules, missing: ModuleStaff},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			modules := ModulesForRole(tt.role)
			if len(modules) != tt.count {
				t.Fatalf("expected %d modules, got %d", tt.count, len(modules))
			}
			if !CanUseModule(tt.role, tt.sample) {
				t.Fatalf("expected %s to use %s", tt.role, tt.sample)
			}
			if tt.missing != "" && CanUseModule(tt.role, tt.missing) {
				t.Fatalf("expected %s not to use %s", tt.role, tt.missing)
			}
		})
	}
}

func TestModulesForRoleUnknown(t *testing.T) {
	if modules := ModulesForRole("superuser"); len(modules) != 0 {
		t.Fatalf("expected no modules for unknown role, got %v", modules)
	}
	if CanUseModule("superuser", ModuleSchedules) {
		t.Fatal("unknown role must not use any module")
	}
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role string
		min  string
		want bool
	}{
		{RoleOrganizationAdmin, RoleStaff, true},
		{RoleOrganizationAdmin, RoleOrganizationAdmin, true},
		{RoleDepartmentHead, RoleDepartmentHead, true},
		{RoleDepartmentHead, RoleFacilityManager, false},
		{RoleStaff, RoleDepartmentHead, false},
		{"superuser", RoleStaff, false},
		{RoleStaff, "superuser", false},
	}

	for _, tt := range tests {
		if got := RoleAtLeast(tt.role, tt.min); got != tt.want {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.min, got, tt.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{
		RoleOrganizationAdmin, RoleWorkspaceAdmin, RoleFacilityManager,
		RoleDepartmentHead, RoleStaff,
	} {
		if !ValidRole(role) {
			t.Errorf("expected %q to be valid", role)
		}
	}
	if ValidRole("superuser") || ValidRole("") {
		t.Error("unexpected valid role")
	}
}
