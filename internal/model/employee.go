package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Salaries go over the wire as JSON numbers, the way the web client sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Department is the organisational unit an employee belongs to.
type Department string

const (
	DepartmentEngineering Department = "Engineering"
	DepartmentMarketing   Department = "Marketing"
	DepartmentSales       Department = "Sales"
	DepartmentHR          Department = "HR"
	DepartmentFinance     Department = "Finance"
)

// Departments lists every accepted department value.
var Departments = []Department{
	DepartmentEngineering,
	DepartmentMarketing,
	DepartmentSales,
	DepartmentHR,
	DepartmentFinance,
}

// Valid reports whether d is one of the known departments.
func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// EmployeeStatus is the employment status. Any status may follow any other.
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "Active"
	EmployeeStatusInactive   EmployeeStatus = "Inactive"
	EmployeeStatusResigned   EmployeeStatus = "Resigned"
	EmployeeStatusTerminated EmployeeStatus = "Terminated"
)

// Valid reports whether s is one of the known statuses.
func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusResigned, EmployeeStatusTerminated:
		return true
	}
	return false
}

// Employee is a managed employee record, owned by the user that created it.
type Employee struct {
	ID           uuid.UUID       `json:"_id" gorm:"type:char(36);primaryKey"`
	EmployeeCode string          `json:"employeeID" gorm:"uniqueIndex;size:32;not null"`
	FirstName    string          `json:"firstName" gorm:"size:100;not null"`
	LastName     string          `json:"lastName" gorm:"size:100;not null"`
	Email        string          `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Position     string          `json:"position" gorm:"size:100;not null"`
	Department   Department      `json:"department" gorm:"type:varchar(20);not null;index"`
	StartDate    time.Time       `json:"startDate" gorm:"not null"`
	Salary       decimal.Decimal `json:"salary" gorm:"type:decimal(20,2);not null;default:0"`
	Status       EmployeeStatus  `json:"status" gorm:"type:varchar(20);not null;default:'Active'"`
	CreatedBy    uuid.UUID       `json:"createdBy" gorm:"type:char(36);not null;index"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	// Relations
	Owner User `json:"-" gorm:"foreignKey:CreatedBy"`
}

// BeforeCreate sets UUID and default status before creating the record.
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = EmployeeStatusActive
	}
	return nil
}
