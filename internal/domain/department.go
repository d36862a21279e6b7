package domain

import "time"

// Department is reference data naming a service area (e.g. "Legal",
// "Psicologia"). Cases and appointments carry the department name directly;
// the table exists so admins can manage the closed list.
type Department struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
