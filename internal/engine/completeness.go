package engine

import "github.com/zulandar/stagecraft/internal/stage"

// MissingArtifacts returns the required artifact types of a stage that the
// item has not yet recorded there. An empty result means the stage is
// complete; stages with no requirements are trivially complete. Extra,
// non-required artifacts have no effect.
func MissingArtifacts(p *stage.Policy, artifacts []ArtifactRecord, stageName string) []string {
	have := make(map[string]bool)
	for _, a := range artifacts {
		if a.Stage == stageName {
			have[a.Type] = true
		}
	}
	var missing []string
	for _, required := range p.RequiredArtifacts(stageName) {
		if !have[required] {
			missing = append(missing, required)
		}
	}
	return missing
}
