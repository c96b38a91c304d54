package auth

const (
	RoleOrganizationAdmin = "organization_admin"
	RoleWorkspaceAdmin    = "workspace_admin"
	RoleFacilityManager   = "facility_manager"
	RoleDepartmentHead    = "department_head"
	RoleStaff             = "staff"
)

const (
	ModuleWorkspaces = "workspaces"
	ModuleFacilities = "facilities"
	ModuleStaff      = "staff"
	ModuleSchedules  = "schedules"
	ModuleVacations  = "vacations"
	ModuleTasks      = "tasks"
	ModuleTrainings  = "trainings"
	ModuleClinics    = "clinics"
	ModuleMessages   = "messages"
	ModuleBilling    = "billing"
	ModuleAudit      = "audit"
	ModuleAdmin      = "admin"
)

// roleLevels orders roles for RequireRole comparisons. Higher wins.
var roleLevels = map[string]int{
	RoleStaff:             1,
	RoleDepartmentHead:    2,
	RoleFacilityManager:   3,
	RoleWorkspaceAdmin:    4,
	RoleOrganizationAdmin: 5,
}

// roleModules maps each role to the module keys it may use. The
// organization admin list is the full module set.
var roleModules = map[string][]string{
	RoleOrganizationAdmin: {
		ModuleWorkspaces, ModuleFacilities, ModuleStaff, ModuleSchedules,
		ModuleVacations, ModuleTasks, ModuleTrainings, ModuleClinics,
		ModuleMessages, ModuleBilling, ModuleAudit, ModuleAdmin,
	},
	RoleWorkspaceAdmin: {
		ModuleWorkspaces, ModuleFacilities, ModuleStaff, ModuleSchedules,
		ModuleVacations, ModuleTasks, ModuleTrainings, ModuleClinics,
		ModuleMessages,
	},
	RoleFacilityManager: {
		ModuleFacilities, ModuleStaff, ModuleSchedules, ModuleVacations,
		ModuleTasks, ModuleTrainings, ModuleClinics, ModuleMessages,
	},
	RoleDepartmentHead: {
		ModuleStaff, ModuleSchedules, ModuleVacations, ModuleTasks,
		ModuleTrainings, ModuleMessages,
	},
	RoleStaff: {
		ModuleSchedules, ModuleVacations, ModuleTasks, ModuleTrainings,
		ModuleMessages,
	},
}

// ModulesForRole returns the module keys visible to a role. Unknown
// roles see nothing.
func ModulesForRole(role string) []string {
	modules, ok := roleModules[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(modules))
	copy(out, modules)
	return out
}

// CanUseModule reports whether a role may use a module.
func CanUseModule(role, module string) bool {
	for _, m := range roleModules[role] {
		if m == module {
			return true
		}
	}
	return false
}

// RoleAtLeast reports whether role ranks at or above min in the role
// hierarchy. Unknown roles never qualify.
func RoleAtLeast(role, min string) bool {
	level, ok := roleLevels[role]
	if !ok {
		return false
	}
	minLevel, ok := roleLevels[min]
	if !ok {
		return false
	}
	return level >= minLevel
}

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	_, ok := roleLevels[role]
	return ok
}
