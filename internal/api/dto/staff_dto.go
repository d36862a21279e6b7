package dto

import (
	"time"

	"github.com/spec-kit/casework-service/internal/domain"
)

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Password   string           `json:"password"`
	Role       domain.StaffRole `json:"role"`
	OfficeID   *string          `json:"office_id"`
	Department *string          `json:"department"`
}

// UpdateStaffRequest payload. Omitted fields stay unchanged.
type UpdateStaffRequest struct {
	Name       *string           `json:"name"`
	Role       *domain.StaffRole `json:"role"`
	OfficeID   *string           `json:"office_id"`
	Department *string           `json:"department"`
	Active     *bool             `json:"active"`
}

// StaffResponse response. Password hash never leaves the service.
type StaffResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Role       domain.StaffRole `json:"role"`
	OfficeID   *string          `json:"office_id"`
	Department *string          `json:"department"`
	Active     bool             `json:"active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// CreateOfficeRequest payload.
type CreateOfficeRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// OfficeResponse response.
type OfficeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DepartmentResponse response.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
