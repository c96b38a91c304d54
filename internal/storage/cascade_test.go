package storage

import (
	"strings"
	"testing"
)

// The unwind order satisfies the foreign keys pointing at users. If a
// step moves, a constraint violation is usually why; this test makes the
// reorder deliberate.
func TestUserCascadeStepOrder(t *testing.T) {
	want := []string{
		"detach sent messages",
		"leave conversations",
		"drop empty conversations",
		"reassign created conversations",
		"unassign tasks",
		"detach vacation decisions",
		"delete shifts of linked staff record",
		"unlink staff record",
		"detach share tokens",
		"detach audit entries",
		"delete user",
	}

	got := UserCascadeStepNames()
	if len(got) != len(want) {
		t.Fatalf("cascade has %d steps, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("step %d = %q, want %q", i, got[i], want[i])
		}
	}

	if got[len(got)-1] != "delete user" {
		t.Fatal("user row must be deleted last")
	}
}

func TestUserCascadeQueriesTakeUserID(t *testing.T) {
	for _, step := range userCascadeSteps {
		if !strings.Contains(step.query, "$1") {
			t.Errorf("step %q does not bind the user id", step.name)
		}
	}
}
