package dto

import (
	"time"

	"github.com/spec-kit/casework-service/internal/domain"
)

// CreateCaseRequest payload.
type CreateCaseRequest struct {
	OfficeID       string  `json:"office_id"`
	Department     string  `json:"department"`
	ClientID       string  `json:"client_id"`
	PrimaryStaffID *string `json:"primary_staff_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
}

// UpdateCaseRequest payload. Omitted fields stay unchanged.
type UpdateCaseRequest struct {
	Department     *string            `json:"department"`
	PrimaryStaffID *string            `json:"primary_staff_id"`
	Title          *string            `json:"title"`
	Description    *string            `json:"description"`
	Status         *domain.CaseStatus `json:"status"`
}

// CaseSummary response.
type CaseSummary struct {
	ID             string            `json:"id"`
	ExternalKey    string            `json:"external_key"`
	OfficeID       string            `json:"office_id"`
	Department     string            `json:"department"`
	ClientID       string            `json:"client_id"`
	PrimaryStaffID *string           `json:"primary_staff_id"`
	Title          string            `json:"title"`
	Status         domain.CaseStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CaseDetailResponse provides full case info.
type CaseDetailResponse struct {
	ID             string            `json:"id"`
	ExternalKey    string            `json:"external_key"`
	OfficeID       string            `json:"office_id"`
	Department     string            `json:"department"`
	ClientID       string            `json:"client_id"`
	PrimaryStaffID *string           `json:"primary_staff_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         domain.CaseStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	ClosedAt       *time.Time        `json:"closed_at"`
}

// CaseHistoryResponse is a single audit entry.
type CaseHistoryResponse struct {
	ID          string                `json:"id"`
	ChangedByID *string               `json:"changed_by_id"`
	ChangeType  domain.CaseChangeType `json:"change_type"`
	OldValue    map[string]any        `json:"old_value"`
	NewValue    map[string]any        `json:"new_value"`
	CreatedAt   time.Time             `json:"created_at"`
}

// GrantAssignmentRequest payload.
type GrantAssignmentRequest struct {
	StaffID string `json:"staff_id"`
}

// CaseAssignmentResponse is a single explicit grant.
type CaseAssignmentResponse struct {
	ID        string    `json:"id"`
	CaseID    string    `json:"case_id"`
	StaffID   string    `json:"staff_id"`
	GrantedBy *string   `json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}
