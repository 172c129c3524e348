package contracts

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusDraft, StatusApproved, false},
		{StatusSubmitted, StatusReviewed, true},
		{StatusSubmitted, StatusRevisionRequested, true},
		{StatusSubmitted, StatusRejected, true},
		{StatusSubmitted, StatusActive, false},
		{StatusReviewed, StatusApproved, true},
		{StatusReviewed, StatusRejected, true},
		{StatusApproved, StatusActive, true},
		{StatusApproved, StatusExpired, true},
		{StatusActive, StatusExpired, true},
		{StatusActive, StatusDraft, false},
		{StatusRevisionRequested, StatusSubmitted, true},
		{StatusRevisionRequested, StatusReviewed, false},
		{StatusExpired, StatusActive, false},
		{StatusRejected, StatusSubmitted, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusExpired, StatusRejected} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusDraft, StatusSubmitted, StatusReviewed, StatusApproved, StatusActive, StatusRevisionRequested} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	if Status("Negotiating").Valid() {
		t.Error("unknown status should not be valid")
	}
}
