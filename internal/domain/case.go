package domain

import "time"

// CaseStatus enumerates lifecycle states for cases.
type CaseStatus string

const (
	CaseStatusOpen     CaseStatus = "OPEN"
	CaseStatusOnHold   CaseStatus = "ON_HOLD"
	CaseStatusClosed   CaseStatus = "CLOSED"
	CaseStatusArchived CaseStatus = "ARCHIVED"
)

// Case is the aggregate for a legal/psychological/social case file. Every
// case belongs to exactly one office and carries a department name;
// PrimaryStaffID, when set, designates the staff member who owns the case.
type Case struct {
	ID             string
	ExternalKey    string
	OfficeID       string
	Department     string
	ClientID       string
	PrimaryStaffID *string
	Title          string
	Description    string
	Status         CaseStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ClosedAt       *time.Time
}
