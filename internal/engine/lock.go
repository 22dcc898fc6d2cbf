package engine

import "fmt"

// StageLocked reports whether a stage refuses new artifacts, and why.
//
// Only the item's current stage accepts artifacts, and only while it has
// never been exited. Once any log entry leaves a stage, that stage stays
// locked forever; regressing back into it does not reopen it. The evidence
// produced on the first visit is the evidence of record.
func StageLocked(item Item, history []Transition, stageName string) (bool, string) {
	if stageName != item.CurrentStage {
		return true, fmt.Sprintf("stage %s is not the current stage; past and future stages are read-only", stageName)
	}
	for _, tr := range history {
		if tr.From == stageName {
			return true, fmt.Sprintf("stage %s has already been exited and no longer accepts artifacts", stageName)
		}
	}
	return false, ""
}
