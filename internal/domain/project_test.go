package domain

import "testing"

func TestProjectStatusTransitions(t *testing.T) {
	cases := []struct {
		from ProjectStatus
		to   ProjectStatus
		ok   bool
	}{
		{ProjectDraft, ProjectActive, true},
		{ProjectDraft, ProjectCancelled, true},
		{ProjectDraft, ProjectCompleted, false},
		{ProjectActive, ProjectCompleted, true},
		{ProjectActive, ProjectCancelled, true},
		{ProjectActive, ProjectDraft, false},
		{ProjectCompleted, ProjectActive, false},
		{ProjectCompleted, ProjectCancelled, false},
		{ProjectCancelled, ProjectActive, false},
		{ProjectCancelled, ProjectDraft, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestProjectStatusSelfTransitionAllowed(t *testing.T) {
	for _, s := range []ProjectStatus{ProjectDraft, ProjectActive, ProjectCompleted, ProjectCancelled} {
		if !s.CanTransitionTo(s) {
			t.Errorf("%s -> %s must be a no-op, not a violation", s, s)
		}
	}
}

func TestProjectStatusValid(t *testing.T) {
	if ProjectStatus("archived").Valid() {
		t.Fatalf("unknown status must be invalid")
	}
	if !ProjectActive.Valid() {
		t.Fatalf("active must be valid")
	}
}
