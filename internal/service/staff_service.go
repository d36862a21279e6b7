package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/casework-service/internal/auth"
	"github.com/spec-kit/casework-service/internal/authz"
	"github.com/spec-kit/casework-service/internal/domain"
	"github.com/spec-kit/casework-service/internal/repository"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

// StaffService manages staff members and the office/department reference
// data they are scoped by.
type StaffService struct {
	staff       repository.StaffRepository
	offices     repository.OfficeRepository
	departments repository.DepartmentRepository
	bcryptCost  int
}

// StaffDependencies bundles repositories.
type StaffDependencies struct {
	StaffRepo      repository.StaffRepository
	OfficeRepo     repository.OfficeRepository
	DepartmentRepo repository.DepartmentRepository
	BcryptCost     int
}

// StaffCreateInput describes a new staff member.
type StaffCreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.StaffRole
	OfficeID   *string
	Department *string
}

// StaffUpdateInput describes mutable staff fields. Nil means unchanged.
type StaffUpdateInput struct {
	Name       *string
	Role       *domain.StaffRole
	OfficeID   *string
	Department *string
	Active     *bool
}

// StaffListInput describes user-supplied list filters.
type StaffListInput struct {
	Role       *domain.StaffRole
	OfficeID   *string
	Department *string
	Active     *bool
	Limit      int
	Offset     int
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:       deps.StaffRepo,
		offices:     deps.OfficeRepo,
		departments: deps.DepartmentRepo,
		bcryptCost:  deps.BcryptCost,
	}
}

// CreateStaff provisions a staff account. The role must belong to the
// closed role table; anything else is rejected up front rather than left
// to fail at evaluation time.
func (s *StaffService) CreateStaff(ctx context.Context, input StaffCreateInput) (*domain.StaffMember, error) {
	if _, err := authz.Classify(input.Role); err != nil {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	if _, err := s.staff.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	if input.OfficeID != nil {
		if err := s.validateOffice(ctx, *input.OfficeID); err != nil {
			return nil, err
		}
	}
	if input.Department != nil {
		if err := s.validateDepartment(ctx, *input.Department); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	member := &domain.StaffMember{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         input.Role,
		OfficeID:     input.OfficeID,
		Department:   input.Department,
		Active:       true,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// GetStaff loads a single staff member.
func (s *StaffService) GetStaff(ctx context.Context, id string) (*domain.StaffMember, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// ListStaff applies the request scope on top of the user filter so office
// managers only see their own office roster.
func (s *StaffService) ListStaff(ctx context.Context, scope *authz.Scope, input StaffListInput) ([]domain.StaffMember, error) {
	filter := repository.StaffFilter{
		Role:       input.Role,
		OfficeID:   input.OfficeID,
		Department: input.Department,
		Active:     input.Active,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if scope != nil && scope.OfficeID != nil {
		filter.OfficeID = scope.OfficeID
	}
	members, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}

// UpdateStaff applies a partial update.
func (s *StaffService) UpdateStaff(ctx context.Context, id string, input StaffUpdateInput) (*domain.StaffMember, error) {
	member, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		if _, err := authz.Classify(*input.Role); err != nil {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		member.Role = *input.Role
	}
	if input.Name != nil {
		member.Name = strings.TrimSpace(*input.Name)
	}
	if input.OfficeID != nil {
		if *input.OfficeID != "" {
			if err := s.validateOffice(ctx, *input.OfficeID); err != nil {
				return nil, err
			}
			member.OfficeID = input.OfficeID
		} else {
			member.OfficeID = nil
		}
	}
	if input.Department != nil {
		if *input.Department != "" {
			if err := s.validateDepartment(ctx, *input.Department); err != nil {
				return nil, err
			}
			member.Department = input.Department
		} else {
			member.Department = nil
		}
	}
	if input.Active != nil {
		member.Active = *input.Active
	}

	if err := s.staff.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// CreateOffice adds a new office.
func (s *StaffService) CreateOffice(ctx context.Context, name, city string) (*domain.Office, error) {
	office := &domain.Office{
		Name:     strings.TrimSpace(name),
		City:     strings.TrimSpace(city),
		IsActive: true,
	}
	if err := s.offices.Create(ctx, office); err != nil {
		return nil, apperrors.MapError(err)
	}
	return office, nil
}

// ListOffices returns all offices.
func (s *StaffService) ListOffices(ctx context.Context) ([]domain.Office, error) {
	offices, err := s.offices.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return offices, nil
}

// CreateDepartment adds a new department.
func (s *StaffService) CreateDepartment(ctx context.Context, name, description string) (*domain.Department, error) {
	dept := &domain.Department{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		IsActive:    true,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns all departments.
func (s *StaffService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

func (s *StaffService) validateOffice(ctx context.Context, officeID string) error {
	office, err := s.offices.GetByID(ctx, officeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("office", map[string]any{"office_id": officeID})
		}
		return apperrors.MapError(err)
	}
	if !office.IsActive {
		return apperrors.NewConflict("office inactive", map[string]any{"office_id": officeID})
	}
	return nil
}

func (s *StaffService) validateDepartment(ctx context.Context, name string) error {
	dept, err := s.departments.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("unknown department", map[string]any{"department": name})
		}
		return apperrors.MapError(err)
	}
	if !dept.IsActive {
		return apperrors.NewConflict("department inactive", map[string]any{"department": name})
	}
	return nil
}
