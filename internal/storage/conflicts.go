package storage

import (
	"context"
	"time"

	"planivo-backend/internal/models"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CheckAvailability returns every shift and approved vacation of a staff
// member that overlaps [from, to). Archived schedules are ignored.
func (s *Storage) CheckAvailability(ctx context.Context, orgID, staffMemberID string, from, to time.Time) ([]models.AvailabilityConflict, error) {
	conflicts := make([]models.AvailabilityConflict, 0)

	shiftQuery := `
		SELECT sh.id, sh.starts_at, sh.ends_at
		FROM shifts sh
		JOIN schedules s ON s.id = sh.schedule_id
		JOIN departments d ON d.id = s.department_id
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE sh.staff_member_id = $1 AND w.org_id = $2
			AND s.status <> 'archived'
			AND sh.starts_at < $4 AND $3 < sh.ends_at
		ORDER BY sh.starts_at
	`
	rows, err := s.db.QueryContext(ctx, shiftQuery, staffMemberID, orgID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.AvailabilityConflict
		c.Kind = "shift"
		if err := rows.Scan(&c.ResourceID, &c.StartsAt, &c.EndsAt); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Vacations are whole-day intervals: [starts_on, ends_on + 1 day).
	vacationQuery := `
		SELECT v.id, v.starts_on, v.ends_on + INTERVAL '1 day'
		FROM vacations v
		JOIN staff_members sm ON sm.id = v.staff_member_id
		JOIN departments d ON d.id = sm.department_id
		JOIN facilities f ON f.id = d.facility_id
		JOIN workspaces w ON w.id = f.workspace_id
		WHERE v.staff_member_id = $1 AND w.org_id = $2
			AND v.status = 'approved'
			AND v.starts_on < $4 AND $3 < v.ends_on + INTERVAL '1 day'
		ORDER BY v.starts_on
	`
	vrows, err := s.db.QueryContext(ctx, vacationQuery, staffMemberID, orgID, from, to)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()

	for vrows.Next() {
		var c models.AvailabilityConflict
		c.Kind = "vacation"
		if err := vrows.Scan(&c.ResourceID, &c.StartsAt, &c.EndsAt); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	if err := vrows.Err(); err != nil {
		return nil, err
	}

	return conflicts, nil
}
