package domain

import "time"

// ClientStatus represents lifecycle states for a client account.
type ClientStatus string

const (
	ClientStatusActive    ClientStatus = "ACTIVE"
	ClientStatusSuspended ClientStatus = "SUSPENDED"
)

// Client is the domain model for the families served by the organization.
// Clients authenticate through the mobile app and never pass through the
// staff authorization engine.
type Client struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       ClientStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
