package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/stagecraft/internal/stage"
)

// EvaluateTransition decides whether the actor may move the item to the
// target stage. Gates run in a fixed order: ownership, target validity,
// no-op, transition quota, then direction-specific rules. Forward moves are
// adjacent-only; backward moves may skip stages. Warnings (overdue stage,
// weak justification) never block an otherwise-allowed move.
func EvaluateTransition(p *stage.Policy, item Item, history []Transition, artifacts []ArtifactRecord, target, reason string, actor Actor, now time.Time) Decision {
	meta := Meta{
		RegressionCount:  RegressionCount(p, history),
		TotalTransitions: TransitionCount(history),
	}

	if item.Owner != nil && actor.ID != 0 && actor.ID != *item.Owner && actor.Role != stage.RoleAdmin {
		return deny(ClassForbidden, "only the work item's owner or an admin may request transitions", meta)
	}

	targetIdx := p.Index(target)
	if targetIdx < 0 {
		return deny(ClassValidation, fmt.Sprintf("unknown stage %q", target), meta)
	}
	currentIdx := p.Index(item.CurrentStage)
	if currentIdx < 0 {
		return deny(ClassValidation, fmt.Sprintf("work item is in unknown stage %q", item.CurrentStage), meta)
	}

	if targetIdx == currentIdx {
		return deny(ClassValidation, fmt.Sprintf("work item is already in stage %s", target), meta)
	}

	if meta.TotalTransitions >= p.TransitionCeiling {
		return deny(ClassValidation, fmt.Sprintf("transition quota reached (%d); no further stage changes are permitted", p.TransitionCeiling), meta)
	}

	switch {
	case targetIdx == currentIdx+1:
		return evaluateForward(p, item, history, artifacts, target, actor, now, meta)
	case targetIdx > currentIdx+1:
		return deny(ClassValidation, fmt.Sprintf("stage skipping is not allowed; the next stage after %s is %s", item.CurrentStage, p.Stages[currentIdx+1]), meta)
	default:
		return evaluateBackward(p, target, reason, actor, meta)
	}
}

func evaluateForward(p *stage.Policy, item Item, history []Transition, artifacts []ArtifactRecord, target string, actor Actor, now time.Time, meta Meta) Decision {
	if actor.Role == "" {
		return deny(ClassValidation, "an approval role is required for forward transitions", meta)
	}

	if missing := MissingArtifacts(p, artifacts, item.CurrentStage); len(missing) > 0 {
		return deny(ClassValidation, fmt.Sprintf("missing required artifacts for stage %s: %s", item.CurrentStage, strings.Join(missing, ", ")), meta)
	}

	if roles := p.ApproverRoles(item.CurrentStage); len(roles) > 0 && !containsRole(roles, actor.Role) {
		return deny(ClassForbidden, fmt.Sprintf("role %q may not approve leaving stage %s (allowed: %s)", actor.Role, item.CurrentStage, strings.Join(roles, ", ")), meta)
	}

	if limit := p.TimeoutDays(item.CurrentStage); limit > 0 {
		elapsed := TimeInCurrentStage(item, history, now)
		if elapsed > time.Duration(limit)*24*time.Hour {
			meta.Warning = fmt.Sprintf("work item spent %d days in %s, exceeding the %d-day limit", int(elapsed.Hours()/24), item.CurrentStage, limit)
		}
	}

	return allow(fmt.Sprintf("forward transition to %s allowed", target), meta)
}

func evaluateBackward(p *stage.Policy, target, reason string, actor Actor, meta Meta) Decision {
	if actor.Role != stage.RoleManager && actor.Role != stage.RoleAdmin {
		return deny(ClassForbidden, "regressions require the Manager or Admin role", meta)
	}

	if meta.RegressionCount >= p.RegressionCeiling {
		return deny(ClassValidation, fmt.Sprintf("regression quota reached (%d); this work item cannot be moved backward again", p.RegressionCeiling), meta)
	}

	trimmed := strings.TrimSpace(reason)
	if len(trimmed) < p.MinReasonLength {
		return deny(ClassValidation, fmt.Sprintf("a regression requires a justification of at least %d characters", p.MinReasonLength), meta)
	}

	if weak := weakWords(p, trimmed); len(weak) > 0 {
		meta.Warning = fmt.Sprintf("justification contains low-information wording: %s", strings.Join(weak, ", "))
	}

	return allow(fmt.Sprintf("regression to %s allowed with justification", target), meta)
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// weakWords returns the configured low-information keywords present in the
// reason, matched as whole words, case-insensitively.
func weakWords(p *stage.Policy, reason string) []string {
	present := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(reason)) {
		word := strings.Trim(field, `.,;:!?"'()[]`)
		for _, weak := range p.WeakReasonWords {
			if word == weak {
				present[weak] = true
			}
		}
	}
	var found []string
	for _, weak := range p.WeakReasonWords {
		if present[weak] {
			found = append(found, weak)
		}
	}
	return found
}
