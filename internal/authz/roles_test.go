package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/casework-service/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		role  domain.StaffRole
		level int
		class BehaviorClass
	}{
		{domain.StaffRoleAdmin, 1, ClassFullAccess},
		{domain.StaffRoleOfficeManager, 2, ClassOfficeManager},
		{domain.StaffRoleLawyer, 3, ClassStaffLike},
		{domain.StaffRolePsychologist, 3, ClassStaffLike},
		{domain.StaffRoleSocialWorker, 3, ClassStaffLike},
		{domain.StaffRoleReceptionist, 4, ClassStaffLike},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			info, err := Classify(tc.role)
			require.NoError(t, err)
			assert.Equal(t, tc.level, info.Level)
			assert.Equal(t, tc.class, info.Class)
		})
	}
}

func TestClassifyRejectsUnknownRole(t *testing.T) {
	_, err := Classify("INTERN")
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = Classify("")
	require.ErrorIs(t, err, ErrInvalidRole)

	// Role keys are case sensitive.
	_, err = Classify("admin")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestOutranks(t *testing.T) {
	assert.True(t, Outranks(domain.StaffRoleAdmin, domain.StaffRoleOfficeManager))
	assert.True(t, Outranks(domain.StaffRoleOfficeManager, domain.StaffRoleLawyer))
	assert.True(t, Outranks(domain.StaffRoleLawyer, domain.StaffRoleReceptionist))

	// Same level never outranks.
	assert.False(t, Outranks(domain.StaffRoleLawyer, domain.StaffRolePsychologist))
	assert.False(t, Outranks(domain.StaffRolePsychologist, domain.StaffRoleLawyer))

	// Unknown roles never outrank and are never outranked.
	assert.False(t, Outranks("INTERN", domain.StaffRoleReceptionist))
	assert.False(t, Outranks(domain.StaffRoleAdmin, "INTERN"))
}

func TestRolesCoversClosedTable(t *testing.T) {
	roles := Roles()
	assert.Len(t, roles, 6)
	assert.Contains(t, roles, domain.StaffRoleAdmin)
	assert.Contains(t, roles, domain.StaffRoleReceptionist)
}

func TestBehaviorClassString(t *testing.T) {
	assert.Equal(t, "full_access", ClassFullAccess.String())
	assert.Equal(t, "office_manager", ClassOfficeManager.String())
	assert.Equal(t, "staff_like", ClassStaffLike.String())
	assert.Equal(t, "unknown", BehaviorClass(0).String())
}
