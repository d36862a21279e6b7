package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/casework-service/internal/domain"
)

var errStoreDown = errors.New("connection refused")

func strPtr(s string) *string { return &s }

func newCaller(t interface{ Fatalf(string, ...any) }, role domain.StaffRole, officeID, department *string) *Caller {
	info, err := Classify(role)
	if err != nil {
		t.Fatalf("classify %s: %v", role, err)
	}
	return &Caller{
		ID:         "caller-1",
		Role:       role,
		Info:       info,
		OfficeID:   officeID,
		Department: department,
	}
}

type fakeCaseStore struct {
	cases map[string]*domain.Case
	err   error
}

func (f *fakeCaseStore) GetByID(_ context.Context, id string) (*domain.Case, error) {
	if f.err != nil {
		return nil, f.err
	}
	if kase, ok := f.cases[id]; ok {
		return kase, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeTaskLinkStore struct {
	links map[string]bool // staffID|caseID
	err   error
}

func (f *fakeTaskLinkStore) ExistsActiveForCase(_ context.Context, staffID, caseID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.links[staffID+"|"+caseID], nil
}

type fakeAssignmentStore struct {
	grants map[string]bool // caseID|staffID
	err    error
}

func (f *fakeAssignmentStore) Exists(_ context.Context, caseID, staffID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.grants[caseID+"|"+staffID], nil
}

type apptRecord struct {
	appt       *domain.Appointment
	caseOffice string
}

type fakeAppointmentStore struct {
	appts map[string]apptRecord
	err   error
}

func (f *fakeAppointmentStore) GetWithCaseOffice(_ context.Context, id string) (*domain.Appointment, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if rec, ok := f.appts[id]; ok {
		return rec.appt, rec.caseOffice, nil
	}
	return nil, "", pgx.ErrNoRows
}

type taskRecord struct {
	task       *domain.Task
	caseOffice string
}

type fakeTaskStore struct {
	tasks map[string]taskRecord
	err   error
}

func (f *fakeTaskStore) GetWithCaseOffice(_ context.Context, id string) (*domain.Task, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if rec, ok := f.tasks[id]; ok {
		return rec.task, rec.caseOffice, nil
	}
	return nil, "", pgx.ErrNoRows
}

type fakeStaffDirectory struct {
	members map[string]*domain.StaffMember
	err     error
}

func (f *fakeStaffDirectory) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	if member, ok := f.members[id]; ok {
		return member, nil
	}
	return nil, pgx.ErrNoRows
}
