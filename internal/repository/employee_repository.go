package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jayu6624/PRODIGY-FS-02/internal/model"
)

// EmployeeRepository defines employee persistence operations.
// Every read and write is scoped to the owning user.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, employee *model.Employee) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Employee, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Employee, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// Create creates a new employee.
func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(employee).Error
}

// Update writes every column of an existing employee. It never inserts: when the row is
// gone (or owned by someone else) it returns gorm.ErrRecordNotFound.
func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	res := r.db.WithContext(ctx).
		Model(employee).
		Where("created_by = ?", employee.CreatedBy).
		Select("*").
		Omit(clause.Associations, "id", "created_at", "created_by").
		Updates(employee)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByOwner lists all employees created by the owner, oldest first.
func (r *employeeRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Employee, error) {
	employees := make([]model.Employee, 0)
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// FindByIDAndOwner finds an employee by ID, returning gorm.ErrRecordNotFound when it
// does not exist or belongs to someone else.
func (r *employeeRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, ownerID).
		First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// DeleteByIDAndOwner permanently removes an employee and reports whether a row matched.
func (r *employeeRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, ownerID).
		Delete(&model.Employee{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
