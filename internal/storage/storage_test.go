package storage

import (
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
)

// Both the DB handle and an open transaction must satisfy the guard
// interface; RegisterAttendee runs the check inside its transaction.
var (
	_ queryer = (*sqlx.DB)(nil)
	_ queryer = (*sqlx.Tx)(nil)
)

// Body-supplied user and staff ids cross the tenancy boundary if the
// guard queries ever lose their org filter.
func TestOrgGuardQueriesScopeByOrg(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"userInOrg", userInOrgQuery},
		{"staffInOrg", staffInOrgQuery},
	}

	for _, tc := range cases {
		if !strings.Contains(tc.query, "org_id = $2") {
			t.Errorf("%s query does not filter by org: %s", tc.name, tc.query)
		}
		if !strings.Contains(tc.query, "$1") {
			t.Errorf("%s query does not bind the referenced id", tc.name)
		}
	}
}

func TestStaffGuardWalksTenancyChain(t *testing.T) {
	for _, table := range []string{"staff_members", "departments", "facilities", "workspaces"} {
		if !strings.Contains(staffInOrgQuery, table) {
			t.Errorf("staff guard does not join %s", table)
		}
	}
}
