package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/casework-service/internal/domain"
)

func TestResolveScopeFullAccess(t *testing.T) {
	// Full access sees everything, even without office or department.
	caller := newCaller(t, domain.StaffRoleAdmin, nil, nil)
	scope, err := ResolveScope(caller)
	require.NoError(t, err)
	assert.Nil(t, scope.OfficeID)
	assert.Nil(t, scope.Department)
	assert.Nil(t, scope.AssignedTo)
}

func TestResolveScopeOfficeManager(t *testing.T) {
	caller := newCaller(t, domain.StaffRoleOfficeManager, strPtr("office-1"), nil)
	scope, err := ResolveScope(caller)
	require.NoError(t, err)
	require.NotNil(t, scope.OfficeID)
	assert.Equal(t, "office-1", *scope.OfficeID)
	assert.Nil(t, scope.Department)
}

func TestResolveScopeStaffWithDepartment(t *testing.T) {
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))
	scope, err := ResolveScope(caller)
	require.NoError(t, err)
	require.NotNil(t, scope.OfficeID)
	require.NotNil(t, scope.Department)
	assert.Equal(t, "office-1", *scope.OfficeID)
	assert.Equal(t, "Legal", *scope.Department)
}

func TestResolveScopeReceptionistWithoutDepartment(t *testing.T) {
	caller := newCaller(t, domain.StaffRoleReceptionist, strPtr("office-2"), nil)
	scope, err := ResolveScope(caller)
	require.NoError(t, err)
	require.NotNil(t, scope.OfficeID)
	assert.Equal(t, "office-2", *scope.OfficeID)
	assert.Nil(t, scope.Department)
}

func TestResolveScopeRequiresOffice(t *testing.T) {
	for _, role := range []domain.StaffRole{
		domain.StaffRoleOfficeManager,
		domain.StaffRoleLawyer,
		domain.StaffRoleReceptionist,
	} {
		caller := newCaller(t, role, nil, strPtr("Legal"))
		_, err := ResolveScope(caller)
		assert.ErrorIs(t, err, ErrOfficeNotAssigned, "role %s", role)
	}
}
