package authz

import "errors"

// Sentinel failures of the authorization pipeline. All are terminal for the
// current request; none may be downgraded to an allow.
var (
	// ErrIdentityNotFound means the authenticated subject id does not
	// resolve to a staff record.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrInvalidRole means the role key is not in the closed role table.
	ErrInvalidRole = errors.New("invalid role")

	// ErrOfficeNotAssigned means a non-full-access caller has no home
	// office. This is a configuration error, not a soft default.
	ErrOfficeNotAssigned = errors.New("no office assigned")

	// ErrStoreUnavailable wraps unexpected store failures during
	// evaluation. Distinct from both allow and deny.
	ErrStoreUnavailable = errors.New("authorization store unavailable")
)

// Decision is the terminal outcome of a resource access evaluation.
type Decision int

const (
	DecisionDeny Decision = iota
	DecisionAllow
	DecisionNotFound
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "ALLOW"
	case DecisionNotFound:
		return "NOT_FOUND"
	default:
		return "DENY"
	}
}
