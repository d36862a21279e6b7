package domain

import "time"

// StaffRole enumerates internal staff roles.
type StaffRole string

const (
	StaffRoleAdmin         StaffRole = "ADMIN"
	StaffRoleOfficeManager StaffRole = "OFFICE_MANAGER"
	StaffRoleLawyer        StaffRole = "LAWYER"
	StaffRolePsychologist  StaffRole = "PSYCHOLOGIST"
	StaffRoleSocialWorker  StaffRole = "SOCIAL_WORKER"
	StaffRoleReceptionist  StaffRole = "RECEPTIONIST"
)

// StaffMember models an employee of the organization. Office and department
// are optional at the data level; whether they are required is decided by the
// authorization engine based on the member's role.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	OfficeID     *string
	Department   *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
