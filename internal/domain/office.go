package domain

import "time"

// Office represents a physical location where cases are handled.
type Office struct {
	ID        string
	Name      string
	City      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
