package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/casework-service/internal/domain"
)

// StaffDirectory is the slice of the staff repository the resolver needs.
type StaffDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
}

// IdentityResolver turns an authenticated subject id into a Caller. It
// fails closed: no record, inactive record, or unknown role all abort the
// request before any evaluator runs.
type IdentityResolver struct {
	staff StaffDirectory
}

// NewIdentityResolver constructs the resolver.
func NewIdentityResolver(staff StaffDirectory) *IdentityResolver {
	return &IdentityResolver{staff: staff}
}

// Resolve loads and classifies the caller.
func (r *IdentityResolver) Resolve(ctx context.Context, staffID string) (*Caller, error) {
	member, err := r.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !member.Active {
		return nil, ErrIdentityNotFound
	}

	info, err := Classify(member.Role)
	if err != nil {
		return nil, err
	}

	return &Caller{
		ID:         member.ID,
		Role:       member.Role,
		Info:       info,
		OfficeID:   member.OfficeID,
		Department: member.Department,
	}, nil
}
