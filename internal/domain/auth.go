package domain

import "time"

// SubjectType differentiates client vs staff tokens.
type SubjectType string

const (
	SubjectTypeClient SubjectType = "CLIENT"
	SubjectTypeStaff  SubjectType = "STAFF"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	Role      *StaffRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
