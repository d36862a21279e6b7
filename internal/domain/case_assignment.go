package domain

import "time"

// CaseAssignment is a legacy explicit grant linking one staff member to one
// case, independent of office or department. Kept because years of existing
// grants still gate access in production data.
type CaseAssignment struct {
	ID        string
	CaseID    string
	StaffID   string
	GrantedBy *string
	CreatedAt time.Time
}
