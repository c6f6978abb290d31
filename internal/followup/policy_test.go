package followup

import "testing"

func TestPolicyEligible(t *testing.T) {
	p := Policy{MinDays: 2, MaxFollowUps: 3, IntentMarker: "interest in"}

	tests := []struct {
		name          string
		firstSubject  string
		daysSinceLast int
		followupCount int
		hasReply      bool
		want          bool
	}{
		{"eligible", "Interest in Product", 5, 1, false, true},
		{"marker is case-insensitive", "  INTEREST IN Product", 5, 0, false, true},
		{"too recent", "Interest in Product", 1, 0, false, false},
		{"wrong campaign regardless of age", "Quarterly Newsletter", 20, 0, false, false},
		{"already replied", "Interest in Product", 5, 0, true, false},
		{"attempts exhausted", "Interest in Product", 5, 3, false, false},
		{"last allowed attempt", "Interest in Product", 5, 2, false, true},
		{"boundary age counts", "Interest in Product", 2, 0, false, true},
	}
	for _, tc := range tests {
		got := p.Eligible(tc.firstSubject, tc.daysSinceLast, tc.followupCount, tc.hasReply)
		if got != tc.want {
			t.Errorf("%s: Eligible = %v; want %v", tc.name, got, tc.want)
		}
	}
}
