package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/zulandar/stagecraft/internal/stage"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// testItem returns an item created an hour ago in the given stage.
func testItem(current string) Item {
	return Item{ID: 1, PublicID: "wi-abc12", CurrentStage: current, CreatedAt: testNow.Add(-time.Hour)}
}

func requirementDoc() []ArtifactRecord {
	return []ArtifactRecord{{Stage: stage.Requirement, Type: "Requirement Document", Reference: "https://docs.internal/req/1"}}
}

// longReason is a valid 30+ character justification.
const longReason = "rolled back due to failed load test results"

func TestEvaluateTransition_ForwardAllowed(t *testing.T) {
	p := stage.DefaultPolicy()
	d := EvaluateTransition(p, testItem(stage.Requirement), nil, requirementDoc(), stage.Design, "", Actor{ID: 7, Role: "Architect"}, testNow)

	if !d.Allowed {
		t.Fatalf("expected allow, got %q", d.Message)
	}
	if d.Meta.RegressionCount != 0 {
		t.Errorf("RegressionCount = %d, want 0", d.Meta.RegressionCount)
	}
	if d.Meta.Warning != "" {
		t.Errorf("unexpected warning %q", d.Meta.Warning)
	}
}

func TestEvaluateTransition_ForwardMissingArtifact(t *testing.T) {
	p := stage.DefaultPolicy()
	d := EvaluateTransition(p, testItem(stage.Requirement), nil, nil, stage.Design, "", Actor{Role: "Architect"}, testNow)

	if d.Allowed {
		t.Fatal("expected denial")
	}
	if d.Class != ClassValidation {
		t.Errorf("Class = %v, want ClassValidation", d.Class)
	}
	if !strings.Contains(d.Message, "Requirement Document") {
		t.Errorf("message %q should name the missing artifact", d.Message)
	}
}

func TestEvaluateTransition_ExtraArtifactsDoNotSatisfy(t *testing.T) {
	p := stage.DefaultPolicy()
	// A two-artifact stage: both must be present regardless of extras.
	p.Rules[stage.Requirement] = stage.Rules{
		RequiredArtifacts: []string{"Requirement Document", "Review Notes"},
	}

	artifacts := []ArtifactRecord{
		{Stage: stage.Requirement, Type: "Requirement Document"},
		{Stage: stage.Requirement, Type: "Meeting Minutes"},
		{Stage: stage.Requirement, Type: "Whiteboard Photo"},
	}
	d := EvaluateTransition(p, testItem(stage.Requirement), nil, artifacts, stage.Design, "", Actor{Role: "Architect"}, testNow)
	if d.Allowed {
		t.Fatal("expected denial while Review Notes is absent")
	}

	artifacts = append(artifacts, ArtifactRecord{Stage: stage.Requirement, Type: "Review Notes"})
	d = EvaluateTransition(p, testItem(stage.Requirement), nil, artifacts, stage.Design, "", Actor{Role: "Architect"}, testNow)
	if !d.Allowed {
		t.Fatalf("expected allow once both required present, got %q", d.Message)
	}
}

func TestEvaluateTransition_ForwardRoleChecks(t *testing.T) {
	p := stage.DefaultPolicy()

	t.Run("missing role rejected", func(t *testing.T) {
		d := EvaluateTransition(p, testItem(stage.Requirement), nil, requirementDoc(), stage.Design, "", Actor{}, testNow)
		if d.Allowed || d.Class != ClassValidation {
			t.Errorf("expected validation denial, got allowed=%v class=%v", d.Allowed, d.Class)
		}
		if !strings.Contains(d.Message, "role") {
			t.Errorf("message %q should mention the role requirement", d.Message)
		}
	})

	t.Run("unlisted role forbidden", func(t *testing.T) {
		d := EvaluateTransition(p, testItem(stage.Requirement), nil, requirementDoc(), stage.Design, "", Actor{Role: "Intern"}, testNow)
		if d.Allowed {
			t.Fatal("expected denial")
		}
		if d.Class != ClassForbidden {
			t.Errorf("Class = %v, want ClassForbidden", d.Class)
		}
	})

	t.Run("stage with no role table accepts any role", func(t *testing.T) {
		alt := stage.DefaultPolicy()
		alt.Rules[stage.Requirement] = stage.Rules{RequiredArtifacts: nil, ApproverRoles: nil}
		d := EvaluateTransition(alt, testItem(stage.Requirement), nil, nil, stage.Design, "", Actor{Role: "Intern"}, testNow)
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
	})
}

func TestEvaluateTransition_OwnershipGate(t *testing.T) {
	p := stage.DefaultPolicy()
	owner := uint(42)
	item := testItem(stage.Requirement)
	item.Owner = &owner

	t.Run("non-owner rejected as forbidden", func(t *testing.T) {
		d := EvaluateTransition(p, item, nil, requirementDoc(), stage.Design, "", Actor{ID: 7, Role: "Architect"}, testNow)
		if d.Allowed {
			t.Fatal("expected denial")
		}
		if d.Class != ClassForbidden {
			t.Errorf("Class = %v, want ClassForbidden", d.Class)
		}
	})

	t.Run("owner allowed", func(t *testing.T) {
		d := EvaluateTransition(p, item, nil, requirementDoc(), stage.Design, "", Actor{ID: 42, Role: "Architect"}, testNow)
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		d := EvaluateTransition(p, item, nil, requirementDoc(), stage.Design, "", Actor{ID: 7, Role: stage.RoleAdmin}, testNow)
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
	})

	t.Run("anonymous requester skips the gate", func(t *testing.T) {
		d := EvaluateTransition(p, item, nil, requirementDoc(), stage.Design, "", Actor{Role: "Architect"}, testNow)
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
	})
}

func TestEvaluateTransition_UnknownAndNoop(t *testing.T) {
	p := stage.DefaultPolicy()

	d := EvaluateTransition(p, testItem(stage.Requirement), nil, nil, "Deployment", "", Actor{Role: "Architect"}, testNow)
	if d.Allowed || d.Class != ClassValidation {
		t.Errorf("unknown stage: allowed=%v class=%v, want validation denial", d.Allowed, d.Class)
	}

	d = EvaluateTransition(p, testItem(stage.Design), nil, nil, stage.Design, "", Actor{Role: "Architect"}, testNow)
	if d.Allowed {
		t.Error("no-op transition should be denied")
	}
}

func TestEvaluateTransition_SkipNamesNextStage(t *testing.T) {
	p := stage.DefaultPolicy()
	d := EvaluateTransition(p, testItem(stage.Requirement), nil, requirementDoc(), stage.Implementation, "", Actor{Role: "Architect"}, testNow)
	if d.Allowed {
		t.Fatal("expected denial")
	}
	if !strings.Contains(d.Message, stage.Design) {
		t.Errorf("message %q should name the legal next stage %s", d.Message, stage.Design)
	}
}

func TestEvaluateTransition_Quota(t *testing.T) {
	p := stage.DefaultPolicy()

	// 20 logged transitions: bouncing between Requirement and Design.
	var history []Transition
	for i := 0; i < 20; i += 2 {
		history = append(history,
			tr(stage.Requirement, stage.Design, testNow.Add(time.Duration(i)*time.Minute)),
			tr(stage.Design, stage.Requirement, testNow.Add(time.Duration(i+1)*time.Minute)),
		)
	}
	item := testItem(stage.Requirement)

	d := EvaluateTransition(p, item, history, requirementDoc(), stage.Design, "", Actor{Role: "Architect"}, testNow)
	if d.Allowed {
		t.Fatal("forward past quota should be denied")
	}
	if !strings.Contains(d.Message, "quota") {
		t.Errorf("message %q should mention the quota", d.Message)
	}
	if d.Meta.TotalTransitions != 20 {
		t.Errorf("TotalTransitions = %d, want 20", d.Meta.TotalTransitions)
	}

	// Backward is equally blocked, even with role and reason in order.
	item.CurrentStage = stage.Design
	d = EvaluateTransition(p, item, history, nil, stage.Requirement, longReason, Actor{Role: stage.RoleManager}, testNow)
	if d.Allowed {
		t.Error("backward past quota should be denied")
	}
}

func TestEvaluateTransition_Backward(t *testing.T) {
	p := stage.DefaultPolicy()

	t.Run("manager with long reason allowed", func(t *testing.T) {
		d := EvaluateTransition(p, testItem(stage.Implementation), nil, nil, stage.Requirement, longReason, Actor{Role: stage.RoleManager}, testNow)
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
	})

	t.Run("multi-step backward is legal", func(t *testing.T) {
		d := EvaluateTransition(p, testItem(stage.Release), nil, nil, stage.Requirement, longReason, Actor{Role: stage.RoleAdmin}, testNow)
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
	})

	t.Run("non-manager forbidden", func(t *testing.T) {
		d := EvaluateTransition(p, testItem(stage.Implementation), nil, nil, stage.Design, longReason, Actor{Role: "Tech Lead"}, testNow)
		if d.Allowed {
			t.Fatal("expected denial")
		}
		if d.Class != ClassForbidden {
			t.Errorf("Class = %v, want ClassForbidden", d.Class)
		}
	})

	t.Run("reason boundary 29 vs 30", func(t *testing.T) {
		reason29 := strings.Repeat("a", 29)
		reason30 := strings.Repeat("a", 30)

		d := EvaluateTransition(p, testItem(stage.Design), nil, nil, stage.Requirement, reason29, Actor{Role: stage.RoleManager}, testNow)
		if d.Allowed {
			t.Error("29-char reason should be denied")
		}

		d = EvaluateTransition(p, testItem(stage.Design), nil, nil, stage.Requirement, reason30, Actor{Role: stage.RoleManager}, testNow)
		if !d.Allowed {
			t.Errorf("30-char reason should be allowed, got %q", d.Message)
		}

		// Padding does not help: length is measured after trimming.
		padded := "  " + reason29 + "  "
		d = EvaluateTransition(p, testItem(stage.Design), nil, nil, stage.Requirement, padded, Actor{Role: stage.RoleManager}, testNow)
		if d.Allowed {
			t.Error("padded 29-char reason should be denied")
		}
	})

	t.Run("weak keyword warns without blocking", func(t *testing.T) {
		reason := "typo in the module header, reverting for correction"
		d := EvaluateTransition(p, testItem(stage.Design), nil, nil, stage.Requirement, reason, Actor{Role: stage.RoleManager}, testNow)
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
		if !strings.Contains(d.Meta.Warning, "typo") {
			t.Errorf("Warning = %q, want it to name the weak keyword", d.Meta.Warning)
		}
	})

	t.Run("weak keyword only matches whole words", func(t *testing.T) {
		reason := "requirements were misread and the tokens broke downstream"
		d := EvaluateTransition(p, testItem(stage.Design), nil, nil, stage.Requirement, reason, Actor{Role: stage.RoleManager}, testNow)
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
		if d.Meta.Warning != "" {
			t.Errorf("unexpected warning %q", d.Meta.Warning)
		}
	})
}

func TestEvaluateTransition_RegressionQuota(t *testing.T) {
	p := stage.DefaultPolicy()

	// Three regressions already logged.
	base := testNow.Add(-time.Hour)
	history := []Transition{
		tr(stage.Requirement, stage.Design, base),
		tr(stage.Design, stage.Requirement, base.Add(1*time.Minute)),
		tr(stage.Requirement, stage.Design, base.Add(2*time.Minute)),
		tr(stage.Design, stage.Requirement, base.Add(3*time.Minute)),
		tr(stage.Requirement, stage.Design, base.Add(4*time.Minute)),
		tr(stage.Design, stage.Requirement, base.Add(5*time.Minute)),
		tr(stage.Requirement, stage.Design, base.Add(6*time.Minute)),
	}
	item := testItem(stage.Design)

	d := EvaluateTransition(p, item, history, nil, stage.Requirement, longReason, Actor{Role: stage.RoleManager}, testNow)
	if d.Allowed {
		t.Fatal("4th regression should be denied even with valid reason and role")
	}
	if d.Class != ClassValidation {
		t.Errorf("Class = %v, want ClassValidation", d.Class)
	}
	if d.Meta.RegressionCount != 3 {
		t.Errorf("RegressionCount = %d, want 3", d.Meta.RegressionCount)
	}
}

func TestEvaluateTransition_OverdueWarning(t *testing.T) {
	p := stage.DefaultPolicy()

	// Created 9 days ago, still in Requirement (7-day limit).
	item := testItem(stage.Requirement)
	item.CreatedAt = testNow.Add(-9 * 24 * time.Hour)

	d := EvaluateTransition(p, item, nil, requirementDoc(), stage.Design, "", Actor{Role: "Architect"}, testNow)
	if !d.Allowed {
		t.Fatalf("expected allow, got %q", d.Message)
	}
	if !strings.Contains(d.Meta.Warning, "9 days") {
		t.Errorf("Warning = %q, want overdue notice", d.Meta.Warning)
	}
}

func TestEvaluateTransition_MetaAlwaysPresent(t *testing.T) {
	p := stage.DefaultPolicy()
	base := testNow.Add(-time.Hour)
	history := []Transition{
		tr(stage.Requirement, stage.Design, base),
		tr(stage.Design, stage.Requirement, base.Add(time.Minute)),
	}
	item := testItem(stage.Requirement)

	// A denial still carries the counts.
	d := EvaluateTransition(p, item, history, nil, "Nonsense", "", Actor{Role: "Architect"}, testNow)
	if d.Meta.TotalTransitions != 2 || d.Meta.RegressionCount != 1 {
		t.Errorf("Meta = %+v, want transitions=2 regressions=1", d.Meta)
	}
}
