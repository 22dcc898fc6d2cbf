package engine

import (
	"fmt"

	"github.com/zulandar/stagecraft/internal/stage"
)

// CanAddArtifact gates artifact creation: the stage must be unlocked, the
// (stage, type) slot must be free, and the reference must satisfy the
// type's format rule, in that order.
func CanAddArtifact(p *stage.Policy, item Item, history []Transition, artifacts []ArtifactRecord, stageName, artifactType, reference string) Decision {
	meta := Meta{
		RegressionCount:  RegressionCount(p, history),
		TotalTransitions: TransitionCount(history),
	}

	if locked, why := StageLocked(item, history, stageName); locked {
		return deny(ClassValidation, why, meta)
	}
	for _, a := range artifacts {
		if a.Stage == stageName && a.Type == artifactType {
			return deny(ClassValidation, fmt.Sprintf("an artifact of type %q already exists for stage %s", artifactType, stageName), meta)
		}
	}
	if err := ValidateReference(p, artifactType, reference); err != nil {
		return deny(ClassValidation, err.Error(), meta)
	}
	return allow(fmt.Sprintf("artifact %q accepted for stage %s", artifactType, stageName), meta)
}
