package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/zulandar/stagecraft/internal/stage"
)

func TestCanAddArtifact(t *testing.T) {
	p := stage.DefaultPolicy()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("accepted on fresh current stage", func(t *testing.T) {
		item := Item{CurrentStage: stage.Requirement}
		d := CanAddArtifact(p, item, nil, nil, stage.Requirement, "Requirement Document", "https://docs.internal/req/1")
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
	})

	t.Run("locked stage rejected first", func(t *testing.T) {
		// The reference is also malformed, but the lock fires before quality.
		item := Item{CurrentStage: stage.Design}
		d := CanAddArtifact(p, item, nil, nil, stage.Requirement, "Requirement Document", "not-a-url")
		if d.Allowed {
			t.Fatal("expected denial")
		}
		if !strings.Contains(d.Message, "not the current stage") {
			t.Errorf("message %q, want the lock reason", d.Message)
		}
	})

	t.Run("duplicate rejected even while unlocked", func(t *testing.T) {
		item := Item{CurrentStage: stage.Requirement}
		existing := []ArtifactRecord{{Stage: stage.Requirement, Type: "Requirement Document"}}
		d := CanAddArtifact(p, item, nil, existing, stage.Requirement, "Requirement Document", "https://docs.internal/req/2")
		if d.Allowed {
			t.Fatal("expected denial")
		}
		if !strings.Contains(d.Message, "already exists") {
			t.Errorf("message %q, want the duplicate reason", d.Message)
		}
	})

	t.Run("same type in a different stage is not a duplicate", func(t *testing.T) {
		item := Item{CurrentStage: stage.Design}
		existing := []ArtifactRecord{{Stage: stage.Requirement, Type: "Review Notes"}}
		d := CanAddArtifact(p, item, nil, existing, stage.Design, "Review Notes", "https://docs.internal/review/2")
		if !d.Allowed {
			t.Fatalf("expected allow, got %q", d.Message)
		}
	})

	t.Run("quality failure rejected last", func(t *testing.T) {
		item := Item{CurrentStage: stage.Implementation}
		d := CanAddArtifact(p, item, nil, nil, stage.Implementation, "Source Code Reference", "not-a-hash")
		if d.Allowed {
			t.Fatal("expected denial")
		}
		if !strings.Contains(d.Message, "format") {
			t.Errorf("message %q, want the format reason", d.Message)
		}
	})

	t.Run("exited stage rejects even after regressing back", func(t *testing.T) {
		item := Item{CurrentStage: stage.Requirement}
		history := []Transition{
			{From: stage.Requirement, To: stage.Design, At: base},
			{From: stage.Design, To: stage.Requirement, At: base.Add(time.Hour)},
		}
		d := CanAddArtifact(p, item, history, nil, stage.Requirement, "Review Notes", "https://docs.internal/review/1")
		if d.Allowed {
			t.Fatal("expected denial for re-entered stage")
		}
		if d.Meta.RegressionCount != 1 {
			t.Errorf("RegressionCount = %d, want 1", d.Meta.RegressionCount)
		}
	})
}
