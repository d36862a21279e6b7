package authz

import (
	"fmt"

	"github.com/spec-kit/casework-service/internal/domain"
)

// BehaviorClass partitions roles into the three shapes the evaluators
// reason about. Two roles can share a hierarchy level yet behave
// differently, so evaluators branch on the class, never on the level.
type BehaviorClass int

const (
	ClassFullAccess BehaviorClass = iota + 1
	ClassOfficeManager
	ClassStaffLike
)

func (b BehaviorClass) String() string {
	switch b {
	case ClassFullAccess:
		return "full_access"
	case ClassOfficeManager:
		return "office_manager"
	case ClassStaffLike:
		return "staff_like"
	default:
		return "unknown"
	}
}

// RoleInfo carries the classification of a single role. Level is the
// hierarchy position (lower outranks higher); Class drives evaluation.
type RoleInfo struct {
	Level int
	Class BehaviorClass
}

// roleTable is the closed role set. There is intentionally no default: a
// role missing here is rejected, never given a fallback behavior class.
var roleTable = map[domain.StaffRole]RoleInfo{
	domain.StaffRoleAdmin:         {Level: 1, Class: ClassFullAccess},
	domain.StaffRoleOfficeManager: {Level: 2, Class: ClassOfficeManager},
	domain.StaffRoleLawyer:        {Level: 3, Class: ClassStaffLike},
	domain.StaffRolePsychologist:  {Level: 3, Class: ClassStaffLike},
	domain.StaffRoleSocialWorker:  {Level: 3, Class: ClassStaffLike},
	domain.StaffRoleReceptionist:  {Level: 4, Class: ClassStaffLike},
}

// Classify maps a role key to its hierarchy level and behavior class.
func Classify(role domain.StaffRole) (RoleInfo, error) {
	info, ok := roleTable[role]
	if !ok {
		return RoleInfo{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return info, nil
}

// Outranks reports whether role a sits strictly above role b in the
// hierarchy. Used for reporting-endpoint selection, not for access
// decisions.
func Outranks(a, b domain.StaffRole) bool {
	ia, okA := roleTable[a]
	ib, okB := roleTable[b]
	if !okA || !okB {
		return false
	}
	return ia.Level < ib.Level
}

// Roles returns every role in the closed table.
func Roles() []domain.StaffRole {
	out := make([]domain.StaffRole, 0, len(roleTable))
	for role := range roleTable {
		out = append(out, role)
	}
	return out
}
