package engine

import (
	"fmt"
	"strings"

	"github.com/zulandar/stagecraft/internal/stage"
)

// ValidateReference checks an artifact's reference string against the
// format rule for its type. Types with no configured rule always pass,
// reference or not; this checker applies no type whitelist, that is a
// caller policy.
func ValidateReference(p *stage.Policy, artifactType, reference string) error {
	pattern, ok := p.ReferenceFormats[artifactType]
	if !ok {
		return nil
	}
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return fmt.Errorf("artifact type %q requires a reference", artifactType)
	}
	if !pattern.MatchString(ref) {
		return fmt.Errorf("reference %q does not match the required format for %q", ref, artifactType)
	}
	return nil
}
