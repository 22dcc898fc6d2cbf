package stage

import "testing"

func TestIndex_TotalOrder(t *testing.T) {
	p := DefaultPolicy()
	want := []string{Requirement, Design, Implementation, Testing, Release}
	if len(p.Stages) != len(want) {
		t.Fatalf("len(Stages) = %d, want %d", len(p.Stages), len(want))
	}
	for i, s := range want {
		if got := p.Index(s); got != i {
			t.Errorf("Index(%s) = %d, want %d", s, got, i)
		}
	}
	// Strictly increasing, no duplicates.
	seen := make(map[string]bool)
	for _, s := range p.Stages {
		if seen[s] {
			t.Errorf("stage %s appears twice", s)
		}
		seen[s] = true
	}
}

func TestIndex_Unknown(t *testing.T) {
	p := DefaultPolicy()
	for _, name := range []string{"", "Deployment", "requirement", "QA"} {
		if got := p.Index(name); got != -1 {
			t.Errorf("Index(%q) = %d, want -1", name, got)
		}
	}
}

func TestDefaultPolicy_Tables(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		stage        string
		wantArtifact string
		wantTimeout  int
	}{
		{Requirement, "Requirement Document", 7},
		{Design, "Design Document", 10},
		{Implementation, "Source Code Reference", 14},
		{Testing, "Test Report", 7},
	}
	for _, tt := range tests {
		t.Run(tt.stage, func(t *testing.T) {
			required := p.RequiredArtifacts(tt.stage)
			if len(required) != 1 || required[0] != tt.wantArtifact {
				t.Errorf("RequiredArtifacts(%s) = %v, want [%s]", tt.stage, required, tt.wantArtifact)
			}
			if got := p.TimeoutDays(tt.stage); got != tt.wantTimeout {
				t.Errorf("TimeoutDays(%s) = %d, want %d", tt.stage, got, tt.wantTimeout)
			}
		})
	}

	if got := p.RequiredArtifacts(Release); len(got) != 0 {
		t.Errorf("RequiredArtifacts(Release) = %v, want empty", got)
	}
	if got := p.ApproverRoles(Release); len(got) != 0 {
		t.Errorf("ApproverRoles(Release) = %v, want none", got)
	}
}

func TestDefaultPolicy_Ceilings(t *testing.T) {
	p := DefaultPolicy()
	if p.TransitionCeiling != 20 {
		t.Errorf("TransitionCeiling = %d, want 20", p.TransitionCeiling)
	}
	if p.RegressionCeiling != 3 {
		t.Errorf("RegressionCeiling = %d, want 3", p.RegressionCeiling)
	}
	if p.MinReasonLength != 30 {
		t.Errorf("MinReasonLength = %d, want 30", p.MinReasonLength)
	}
}
