package risk

import "testing"

func TestLevelFromScore_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0.0, LevelLow},
		{0.249, LevelLow},
		{0.25, LevelMedium},
		{0.499, LevelMedium},
		{0.50, LevelHigh},
		{0.749, LevelHigh},
		{0.75, LevelCritical},
		{1.0, LevelCritical},
	}
	for _, tt := range tests {
		if got := LevelFromScore(tt.score); got != tt.want {
			t.Errorf("LevelFromScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestLevelOrdering(t *testing.T) {
	ordered := []Level{LevelLow, LevelMedium, LevelHigh, LevelCritical}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Order() >= ordered[i].Order() {
			t.Fatalf("%s should order below %s", ordered[i-1], ordered[i])
		}
	}
	if !LevelLow.AtMost(LevelMedium) {
		t.Fatal("low should be at most medium")
	}
	if LevelCritical.AtMost(LevelHigh) {
		t.Fatal("critical must not be at most high")
	}
}

func TestAssessmentValidate(t *testing.T) {
	good := &Assessment{ID: NewAssessmentID(), OverallScore: 0.4, TrustImpact: -0.5}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	badScore := &Assessment{ID: "risk_bad", OverallScore: 1.2}
	if err := badScore.Validate(); err == nil {
		t.Fatal("expected error for overall score > 1")
	}

	badTrust := &Assessment{ID: "risk_bad", OverallScore: 0.5, TrustImpact: -1.5}
	if err := badTrust.Validate(); err == nil {
		t.Fatal("expected error for trust impact < -1")
	}
}

func TestApprovalResultApproved(t *testing.T) {
	tests := []struct {
		decision Decision
		approved bool
	}{
		{DecisionApproved, true},
		{DecisionApprovedWithMods, true},
		{DecisionNeedsReview, false},
		{DecisionRejected, false},
	}
	for _, tt := range tests {
		r := ApprovalResult{Decision: tt.decision}
		if r.Approved() != tt.approved {
			t.Errorf("Approved() for %s = %v, want %v", tt.decision, r.Approved(), tt.approved)
		}
	}
}
