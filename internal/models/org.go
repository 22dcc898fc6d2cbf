package models

import "time"

// Project groups work items; deleting a project cascades to them.
type Project struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"size:16;uniqueIndex"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time

	WorkItems []WorkItem `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// User supplies an actor identity, role, and credential. Credential is an
// opaque hash; there is no session layer in this service.
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Username    string `gorm:"size:64;uniqueIndex;not null"`
	DisplayName string `gorm:"size:100"`
	Role        string `gorm:"size:32"`
	Credential  string `gorm:"size:64"`
	CreatedAt   time.Time
}

// Approval is a recorded sign-off on a work item at a stage. The transition
// engine does not consult these rows; they exist as an audit ledger, and
// the signature field is stored without verification.
type Approval struct {
	ID         uint   `gorm:"primaryKey"`
	WorkItemID uint   `gorm:"index;not null"`
	Stage      string `gorm:"size:50;not null"`
	Approver   string `gorm:"size:64"`
	Status     string `gorm:"size:16;default:pending"`
	Signature  string `gorm:"size:255"`
	CreatedAt  time.Time
}
