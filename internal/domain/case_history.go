package domain

import "time"

// CaseChangeType enumerates audited case mutations.
type CaseChangeType string

const (
	ChangeTypeStatus       CaseChangeType = "STATUS"
	ChangeTypePrimaryStaff CaseChangeType = "PRIMARY_STAFF"
	ChangeTypeOffice       CaseChangeType = "OFFICE"
	ChangeTypeDepartment   CaseChangeType = "DEPARTMENT"
)

// CaseHistory is an append-only audit record of a case mutation.
type CaseHistory struct {
	ID          string
	CaseID      string
	ChangedByID *string
	ChangeType  CaseChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
