package authz

import "github.com/spec-kit/casework-service/internal/domain"

// Caller is the request-scoped identity the engine evaluates against.
// Built once by the identity resolver and read-only afterwards.
type Caller struct {
	ID         string
	Role       domain.StaffRole
	Info       RoleInfo
	OfficeID   *string
	Department *string
}

// HasOffice reports whether the caller has a home office.
func (c *Caller) HasOffice() bool {
	return c != nil && c.OfficeID != nil && *c.OfficeID != ""
}

// HasDepartment reports whether the caller carries a department value.
func (c *Caller) HasDepartment() bool {
	return c != nil && c.Department != nil && *c.Department != ""
}

// Scope holds the list-query restrictions derived for the caller. Written
// once per request by the scope setter; query builders treat nil fields as
// "no restriction".
type Scope struct {
	OfficeID   *string
	Department *string
	AssignedTo *string
}
