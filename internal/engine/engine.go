// Package engine implements the stage-transition and artifact-admission
// validation core. Every function here is a pure computation over a work
// item snapshot supplied by the caller: the engine never touches storage,
// and denials are returned as Decision values, not errors.
package engine

import "time"

// Item is the work item snapshot the engine evaluates against.
type Item struct {
	ID           uint
	PublicID     string
	CurrentStage string
	// Owner is the identity empowered to request transitions; nil means the
	// item is unowned and anyone may request.
	Owner     *uint
	CreatedAt time.Time
}

// Transition is one entry of the ordered (timestamp ascending) history log.
type Transition struct {
	From   string
	To     string
	Reason *string
	At     time.Time
}

// ArtifactRecord is one recorded artifact of the snapshot.
type ArtifactRecord struct {
	Stage     string
	Type      string
	Reference string
}

// Actor identifies who is requesting an evaluation. ID 0 means the
// requester identity is unknown; Role may be empty if the caller supplied
// none.
type Actor struct {
	ID   uint
	Role string
}

// Class partitions denials so the transport layer can pick status codes.
type Class int

const (
	// ClassOK marks an allowed decision.
	ClassOK Class = iota
	// ClassValidation marks an ordinary client error (bad target, missing
	// artifacts, quota, malformed reason, ...).
	ClassValidation
	// ClassForbidden marks an authorization failure (not owner, wrong role).
	ClassForbidden
)

// Meta accompanies every decision, allowed or not.
type Meta struct {
	RegressionCount  int    `json:"regression_count"`
	TotalTransitions int    `json:"total_transitions"`
	Warning          string `json:"warning,omitempty"`
}

// Decision is the engine's answer for a proposed transition or artifact
// admission.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message"`
	Class   Class  `json:"-"`
	Meta    Meta   `json:"meta"`
}

func allow(message string, meta Meta) Decision {
	return Decision{Allowed: true, Message: message, Class: ClassOK, Meta: meta}
}

func deny(class Class, message string, meta Meta) Decision {
	return Decision{Allowed: false, Message: message, Class: class, Meta: meta}
}
