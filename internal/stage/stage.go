// Package stage defines the SDLC stage sequence and the governance policy
// tables consulted by the transition engine.
package stage

import "regexp"

// Stage names, in lifecycle order.
const (
	Requirement    = "Requirement"
	Design         = "Design"
	Implementation = "Implementation"
	Testing        = "Testing"
	Release        = "Release"
)

// Roles with cross-stage powers.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
)

// Rules holds the per-stage governance tables.
type Rules struct {
	// RequiredArtifacts must all be present before the stage can be exited
	// forward.
	RequiredArtifacts []string
	// ApproverRoles may approve a forward transition out of the stage.
	// Empty means any role is acceptable.
	ApproverRoles []string
	// TimeoutDays is the soft dwell limit for the stage; 0 disables the
	// overdue warning.
	TimeoutDays int
}

// Policy is the immutable governance configuration for a deployment. It is
// passed explicitly into every evaluation so tests can substitute alternate
// tables.
type Policy struct {
	// Stages in order; index defines forward (increasing) vs backward.
	Stages []string
	// Rules per stage name.
	Rules map[string]Rules
	// ReferenceFormats maps artifact types to the pattern their reference
	// string must match. Types absent from the map pass unconditionally.
	ReferenceFormats map[string]*regexp.Regexp
	// TransitionCeiling is the hard limit on total logged transitions.
	TransitionCeiling int
	// RegressionCeiling is the hard limit on regressions.
	RegressionCeiling int
	// MinReasonLength is the minimum trimmed length of a regression
	// justification.
	MinReasonLength int
	// WeakReasonWords trigger a non-blocking warning when they appear in a
	// regression justification.
	WeakReasonWords []string
}

// Index returns the position of a stage in the lifecycle order, or -1 if the
// name is not a known stage.
func (p *Policy) Index(name string) int {
	for i, s := range p.Stages {
		if s == name {
			return i
		}
	}
	return -1
}

// RequiredArtifacts returns the artifact types required to exit the stage.
func (p *Policy) RequiredArtifacts(name string) []string {
	return p.Rules[name].RequiredArtifacts
}

// ApproverRoles returns the roles allowed to approve a forward transition
// out of the stage. Empty means no role restriction.
func (p *Policy) ApproverRoles(name string) []string {
	return p.Rules[name].ApproverRoles
}

// TimeoutDays returns the dwell limit for the stage, 0 for none.
func (p *Policy) TimeoutDays(name string) int {
	return p.Rules[name].TimeoutDays
}

// Reference pattern per artifact type: source references are abbreviated or
// full lowercase commit hashes, document-like artifacts are linked by URL.
var (
	commitPattern = regexp.MustCompile(`^([0-9a-f]{7}|[0-9a-f]{40})$`)
	urlPattern    = regexp.MustCompile(`^https?://`)
)

// DefaultPolicy returns the stock governance tables.
func DefaultPolicy() *Policy {
	return &Policy{
		Stages: []string{Requirement, Design, Implementation, Testing, Release},
		Rules: map[string]Rules{
			Requirement: {
				RequiredArtifacts: []string{"Requirement Document"},
				ApproverRoles:     []string{"Analyst", "Architect", RoleAdmin},
				TimeoutDays:       7,
			},
			Design: {
				RequiredArtifacts: []string{"Design Document"},
				ApproverRoles:     []string{"Architect", RoleAdmin},
				TimeoutDays:       10,
			},
			Implementation: {
				RequiredArtifacts: []string{"Source Code Reference"},
				ApproverRoles:     []string{"Tech Lead", RoleAdmin},
				TimeoutDays:       14,
			},
			Testing: {
				RequiredArtifacts: []string{"Test Report"},
				ApproverRoles:     []string{"QA Lead", RoleAdmin},
				TimeoutDays:       7,
			},
			Release: {},
		},
		ReferenceFormats: map[string]*regexp.Regexp{
			"Source Code Reference": commitPattern,
			"Requirement Document":  urlPattern,
			"Design Document":       urlPattern,
			"Test Report":           urlPattern,
			"Review Notes":          urlPattern,
		},
		TransitionCeiling: 20,
		RegressionCeiling: 3,
		MinReasonLength:   30,
		WeakReasonWords:   []string{"fixed", "ok", "bug", "typo"},
	}
}
