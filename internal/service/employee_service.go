package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/jayu6624/PRODIGY-FS-02/internal/errors"
	"github.com/jayu6624/PRODIGY-FS-02/internal/model"
	"github.com/jayu6624/PRODIGY-FS-02/internal/repository"
)

const employeeCodePrefix = "EMP-"

var startDateLayouts = []string{"2006-01-02", time.RFC3339}

// CreateEmployeeInput carries the fields of a new employee. EmployeeCode and Status are optional.
type CreateEmployeeInput struct {
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Position     string
	Department   model.Department
	StartDate    time.Time
	Salary       *decimal.Decimal
	Status       model.EmployeeStatus
}

// UpdateEmployeeInput carries a partial update; nil fields are left untouched.
type UpdateEmployeeInput struct {
	EmployeeCode *string
	FirstName    *string
	LastName     *string
	Email        *string
	Position     *string
	Department   *model.Department
	StartDate    *time.Time
	Salary       *decimal.Decimal
	Status       *model.EmployeeStatus
}

// EmployeeService handles employee operations on behalf of an authenticated owner.
type EmployeeService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in CreateEmployeeInput) (*model.Employee, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Employee, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Employee, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateEmployeeInput) (*model.Employee, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type employeeService struct {
	repo     repository.EmployeeRepository
	validate *validator.Validate
}

// NewEmployeeService creates a new employee service.
func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeService{
		repo:     repo,
		validate: validator.New(),
	}
}

// ParseStartDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseStartDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: startDate must be a date like 2024-01-31", apperrors.ErrValidation)
}

// GenerateEmployeeCode returns a fresh human-readable employee code.
func GenerateEmployeeCode() string {
	return employeeCodePrefix + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// Create validates and stores a new employee owned by ownerID.
func (s *employeeService) Create(ctx context.Context, ownerID uuid.UUID, in CreateEmployeeInput) (*model.Employee, error) {
	if in.Salary == nil {
		return nil, fmt.Errorf("%w: salary is required", apperrors.ErrValidation)
	}

	employee := &model.Employee{
		ID:           uuid.New(),
		EmployeeCode: strings.TrimSpace(in.EmployeeCode),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        model.NormalizeEmail(in.Email),
		Position:     strings.TrimSpace(in.Position),
		Department:   in.Department,
		StartDate:    in.StartDate,
		Salary:       *in.Salary,
		Status:       in.Status,
		CreatedBy:    ownerID,
	}
	if employee.EmployeeCode == "" {
		employee.EmployeeCode = GenerateEmployeeCode()
	}
	if employee.Status == "" {
		employee.Status = model.EmployeeStatusActive
	}

	if err := s.validateEmployee(employee); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmployeeConflict
		}
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return employee, nil
}

// List returns every employee owned by ownerID.
func (s *employeeService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Employee, error) {
	employees, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	return employees, nil
}

// Get returns one employee owned by ownerID.
func (s *employeeService) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Employee, error) {
	employee, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return employee, nil
}

// Update applies a partial update to an employee owned by ownerID.
func (s *employeeService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateEmployeeInput) (*model.Employee, error) {
	employee, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	applyEmployeeUpdate(employee, in)

	if err := s.validateEmployee(employee); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmployeeConflict
		}
		// Deleted between the lookup and the write.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return employee, nil
}

// Delete permanently removes an employee owned by ownerID.
func (s *employeeService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	deleted, err := s.repo.DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if !deleted {
		return apperrors.ErrEmployeeNotFound
	}
	return nil
}

func applyEmployeeUpdate(e *model.Employee, in UpdateEmployeeInput) {
	if in.EmployeeCode != nil {
		e.EmployeeCode = strings.TrimSpace(*in.EmployeeCode)
	}
	if in.FirstName != nil {
		e.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		e.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		e.Email = model.NormalizeEmail(*in.Email)
	}
	if in.Position != nil {
		e.Position = strings.TrimSpace(*in.Position)
	}
	if in.Department != nil {
		e.Department = *in.Department
	}
	if in.StartDate != nil {
		e.StartDate = *in.StartDate
	}
	if in.Salary != nil {
		e.Salary = *in.Salary
	}
	if in.Status != nil {
		e.Status = *in.Status
	}
}

// validateEmployee checks a fully populated employee before it reaches the store.
func (s *employeeService) validateEmployee(e *model.Employee) error {
	required := []struct {
		field string
		value string
	}{
		{"employeeID", e.EmployeeCode},
		{"firstName", e.FirstName},
		{"lastName", e.LastName},
		{"email", e.Email},
		{"position", e.Position},
		{"department", string(e.Department)},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", apperrors.ErrValidation, r.field)
		}
	}
	if e.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", apperrors.ErrValidation)
	}
	if err := s.validate.Var(e.Email, "email"); err != nil {
		return fmt.Errorf("%w: please enter a valid email", apperrors.ErrValidation)
	}
	if !e.Department.Valid() {
		return fmt.Errorf("%w: department must be one of Engineering, Marketing, Sales, HR, Finance", apperrors.ErrInvalidInput)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("%w: status must be one of Active, Inactive, Resigned, Terminated", apperrors.ErrInvalidInput)
	}
	if e.Salary.IsNegative() {
		return fmt.Errorf("%w: salary cannot be negative", apperrors.ErrInvalidInput)
	}
	return nil
}
