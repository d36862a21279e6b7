package authz

// ResolveScope derives the list-query restrictions for a caller.
//
// Full-access callers get an empty scope: they see everything. Every other
// caller must have a home office; a missing office is a hard
// ErrOfficeNotAssigned, never a silently wider scope. The department scope
// is published only when the caller carries a department value.
func ResolveScope(caller *Caller) (Scope, error) {
	if caller.Info.Class == ClassFullAccess {
		return Scope{}, nil
	}

	if !caller.HasOffice() {
		return Scope{}, ErrOfficeNotAssigned
	}

	scope := Scope{OfficeID: caller.OfficeID}
	if caller.HasDepartment() {
		scope.Department = caller.Department
	}
	return scope, nil
}
