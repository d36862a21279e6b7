package authz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/casework-service/internal/domain"
)

func testAppointment(id, caseOffice, staffID, department string) apptRecord {
	return apptRecord{
		appt: &domain.Appointment{
			ID:          id,
			CaseID:      "case-1",
			StaffID:     staffID,
			Department:  department,
			ScheduledAt: time.Now().Add(24 * time.Hour),
			Status:      domain.AppointmentStatusScheduled,
		},
		caseOffice: caseOffice,
	}
}

func TestAppointmentEvaluateFullAccess(t *testing.T) {
	eval := NewAppointmentEvaluator(&fakeAppointmentStore{err: errStoreDown})
	caller := newCaller(t, domain.StaffRoleAdmin, nil, nil)

	decision, err := eval.Evaluate(context.Background(), caller, "appt-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestAppointmentEvaluateOfficeManager(t *testing.T) {
	eval := NewAppointmentEvaluator(&fakeAppointmentStore{appts: map[string]apptRecord{
		"appt-1": testAppointment("appt-1", "office-1", "other-staff", "Legal"),
	}})

	caller := newCaller(t, domain.StaffRoleOfficeManager, strPtr("office-1"), nil)
	decision, err := eval.Evaluate(context.Background(), caller, "appt-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)

	caller = newCaller(t, domain.StaffRoleOfficeManager, strPtr("office-2"), nil)
	decision, err = eval.Evaluate(context.Background(), caller, "appt-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionDeny, decision)
}

func TestAppointmentEvaluateAssignmentWins(t *testing.T) {
	// The assigned staff member sees the appointment even when office and
	// department both mismatch.
	eval := NewAppointmentEvaluator(&fakeAppointmentStore{appts: map[string]apptRecord{
		"appt-1": testAppointment("appt-1", "office-9", "caller-1", "Psicologia"),
	}})
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "appt-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestAppointmentEvaluateStaffLike(t *testing.T) {
	eval := NewAppointmentEvaluator(&fakeAppointmentStore{appts: map[string]apptRecord{
		"appt-1": testAppointment("appt-1", "office-1", "other-staff", "Legal"),
	}})

	tests := []struct {
		name       string
		role       domain.StaffRole
		officeID   *string
		department *string
		want       Decision
	}{
		{"office and department match", domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"), DecisionAllow},
		{"office mismatch", domain.StaffRoleLawyer, strPtr("office-2"), strPtr("Legal"), DecisionDeny},
		{"department mismatch", domain.StaffRolePsychologist, strPtr("office-1"), strPtr("Psicologia"), DecisionDeny},
		// No department on the caller means only the office is checked.
		{"receptionist without department", domain.StaffRoleReceptionist, strPtr("office-1"), nil, DecisionAllow},
		{"receptionist wrong office", domain.StaffRoleReceptionist, strPtr("office-2"), nil, DecisionDeny},
		{"no office", domain.StaffRoleLawyer, nil, strPtr("Legal"), DecisionDeny},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			caller := newCaller(t, tc.role, tc.officeID, tc.department)
			decision, err := eval.Evaluate(context.Background(), caller, "appt-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, decision)
		})
	}
}

func TestAppointmentEvaluateNotFound(t *testing.T) {
	eval := NewAppointmentEvaluator(&fakeAppointmentStore{appts: map[string]apptRecord{}})
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "appt-404")
	require.NoError(t, err)
	assert.Equal(t, DecisionNotFound, decision)
}

func TestAppointmentEvaluateStoreFailureFailsClosed(t *testing.T) {
	eval := NewAppointmentEvaluator(&fakeAppointmentStore{err: errStoreDown})
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "appt-1")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, DecisionDeny, decision)
}
