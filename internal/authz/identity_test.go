package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/casework-service/internal/domain"
)

func TestResolveClassifiesActiveStaff(t *testing.T) {
	directory := &fakeStaffDirectory{members: map[string]*domain.StaffMember{
		"staff-1": {
			ID:         "staff-1",
			Role:       domain.StaffRoleLawyer,
			OfficeID:   strPtr("office-1"),
			Department: strPtr("Legal"),
			Active:     true,
		},
	}}
	resolver := NewIdentityResolver(directory)

	caller, err := resolver.Resolve(context.Background(), "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", caller.ID)
	assert.Equal(t, domain.StaffRoleLawyer, caller.Role)
	assert.Equal(t, ClassStaffLike, caller.Info.Class)
	assert.Equal(t, 3, caller.Info.Level)
	require.NotNil(t, caller.OfficeID)
	assert.Equal(t, "office-1", *caller.OfficeID)
}

func TestResolveFailsClosed(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		resolver := NewIdentityResolver(&fakeStaffDirectory{members: map[string]*domain.StaffMember{}})
		_, err := resolver.Resolve(context.Background(), "ghost")
		require.ErrorIs(t, err, ErrIdentityNotFound)
	})

	t.Run("inactive member", func(t *testing.T) {
		resolver := NewIdentityResolver(&fakeStaffDirectory{members: map[string]*domain.StaffMember{
			"staff-1": {ID: "staff-1", Role: domain.StaffRoleLawyer, Active: false},
		}})
		_, err := resolver.Resolve(context.Background(), "staff-1")
		require.ErrorIs(t, err, ErrIdentityNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		resolver := NewIdentityResolver(&fakeStaffDirectory{members: map[string]*domain.StaffMember{
			"staff-1": {ID: "staff-1", Role: "INTERN", Active: true},
		}})
		_, err := resolver.Resolve(context.Background(), "staff-1")
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("store failure", func(t *testing.T) {
		resolver := NewIdentityResolver(&fakeStaffDirectory{err: errStoreDown})
		_, err := resolver.Resolve(context.Background(), "staff-1")
		require.ErrorIs(t, err, ErrStoreUnavailable)
	})
}
