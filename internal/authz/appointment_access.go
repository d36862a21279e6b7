package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/casework-service/internal/domain"
)

// AppointmentStore loads an appointment together with its parent case's
// office, which is what office-scoped rules compare against.
type AppointmentStore interface {
	GetWithCaseOffice(ctx context.Context, id string) (*domain.Appointment, string, error)
}

// AppointmentEvaluator decides access to individual appointments.
type AppointmentEvaluator struct {
	appointments AppointmentStore
}

// NewAppointmentEvaluator constructs the evaluator.
func NewAppointmentEvaluator(appointments AppointmentStore) *AppointmentEvaluator {
	return &AppointmentEvaluator{appointments: appointments}
}

// Evaluate decides single-appointment access for the caller.
//
// Assignment always wins for staff-like callers. Absent assignment, the
// parent case's office must match and, when the caller carries a
// department, the appointment's department must match too. A caller
// without a department (e.g. a receptionist) is only office-checked;
// that asymmetry is intended.
func (e *AppointmentEvaluator) Evaluate(ctx context.Context, caller *Caller, appointmentID string) (Decision, error) {
	switch caller.Info.Class {
	case ClassFullAccess:
		return DecisionAllow, nil

	case ClassOfficeManager:
		_, caseOffice, decision, err := e.load(ctx, appointmentID)
		if decision != DecisionAllow {
			return decision, err
		}
		if caller.HasOffice() && caseOffice == *caller.OfficeID {
			return DecisionAllow, nil
		}
		return DecisionDeny, nil

	case ClassStaffLike:
		appt, caseOffice, decision, err := e.load(ctx, appointmentID)
		if decision != DecisionAllow {
			return decision, err
		}
		if appt.StaffID == caller.ID {
			return DecisionAllow, nil
		}
		if !caller.HasOffice() || caseOffice != *caller.OfficeID {
			return DecisionDeny, nil
		}
		if caller.HasDepartment() && *caller.Department != appt.Department {
			return DecisionDeny, nil
		}
		return DecisionAllow, nil
	}

	return DecisionDeny, fmt.Errorf("%w: %q", ErrInvalidRole, caller.Role)
}

func (e *AppointmentEvaluator) load(ctx context.Context, id string) (*domain.Appointment, string, Decision, error) {
	appt, caseOffice, err := e.appointments.GetWithCaseOffice(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", DecisionNotFound, nil
		}
		return nil, "", DecisionDeny, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return appt, caseOffice, DecisionAllow, nil
}
