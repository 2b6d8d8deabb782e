package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "github.com/jayu6624/PRODIGY-FS-02/internal/errors"
	"github.com/jayu6624/PRODIGY-FS-02/internal/middleware"
	"github.com/jayu6624/PRODIGY-FS-02/internal/model"
	"github.com/jayu6624/PRODIGY-FS-02/internal/service"
)

// EmployeeHandler handles employee endpoints. Every route acts on the caller's own records.
type EmployeeHandler struct {
	employeeService service.EmployeeService
}

// NewEmployeeHandler creates a new employee handler.
func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// CreateEmployeeRequest represents a new employee payload.
type CreateEmployeeRequest struct {
	EmployeeCode string           `json:"employeeID"`
	FirstName    string           `json:"firstName"`
	LastName     string           `json:"lastName"`
	Email        string           `json:"email" validate:"omitempty,email"`
	Position     string           `json:"position"`
	Department   string           `json:"department"`
	StartDate    string           `json:"startDate"`
	Salary       *decimal.Decimal `json:"salary" swaggertype:"number"`
	Status       string           `json:"status"`
}

// UpdateEmployeeRequest represents a partial employee update. Omitted fields keep their value.
type UpdateEmployeeRequest struct {
	EmployeeCode *string          `json:"employeeID"`
	FirstName    *string          `json:"firstName"`
	LastName     *string          `json:"lastName"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Position     *string          `json:"position"`
	Department   *string          `json:"department"`
	StartDate    *string          `json:"startDate"`
	Salary       *decimal.Decimal `json:"salary" swaggertype:"number"`
	Status       *string          `json:"status"`
}

// DeleteEmployeeResponse confirms a removal.
type DeleteEmployeeResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// CreateEmployee godoc
// @Summary Create employee
// @Tags employee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEmployeeRequest true "Employee data"
// @Success 201 {object} model.Employee
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /employee [post]
func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	owner, ok := middleware.IdentityFrom(c)
	if !ok {
		return httpError(apperrors.ErrUnauthenticated)
	}

	var req CreateEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.CreateEmployeeInput{
		EmployeeCode: req.EmployeeCode,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Position:     req.Position,
		Department:   model.Department(req.Department),
		Salary:       req.Salary,
		Status:       model.EmployeeStatus(req.Status),
	}
	if req.StartDate != "" {
		startDate, err := service.ParseStartDate(req.StartDate)
		if err != nil {
			return httpError(err)
		}
		in.StartDate = startDate
	}

	employee, err := h.employeeService.Create(c.Request().Context(), owner.ID, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, employee)
}

// ListEmployees godoc
// @Summary List employees
// @Description Returns the caller's employees in creation order.
// @Tags employee
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Employee
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /employee [get]
func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	owner, ok := middleware.IdentityFrom(c)
	if !ok {
		return httpError(apperrors.ErrUnauthenticated)
	}

	employees, err := h.employeeService.List(c.Request().Context(), owner.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, employees)
}

// GetEmployee godoc
// @Summary Get employee by id
// @Tags employee
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} model.Employee
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /employee/{id} [get]
func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	owner, id, err := ownerAndID(c)
	if err != nil {
		return err
	}

	employee, err := h.employeeService.Get(c.Request().Context(), owner, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, employee)
}

// UpdateEmployee godoc
// @Summary Update employee
// @Tags employee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param request body UpdateEmployeeRequest true "Fields to change"
// @Success 200 {object} model.Employee
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /employee/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	owner, id, err := ownerAndID(c)
	if err != nil {
		return err
	}

	var req UpdateEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.UpdateEmployeeInput{
		EmployeeCode: req.EmployeeCode,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Position:     req.Position,
		Salary:       req.Salary,
	}
	if req.Department != nil {
		department := model.Department(*req.Department)
		in.Department = &department
	}
	if req.Status != nil {
		status := model.EmployeeStatus(*req.Status)
		in.Status = &status
	}
	if req.StartDate != nil {
		startDate, err := service.ParseStartDate(*req.StartDate)
		if err != nil {
			return httpError(err)
		}
		in.StartDate = &startDate
	}

	employee, err := h.employeeService.Update(c.Request().Context(), owner, id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, employee)
}

// DeleteEmployee godoc
// @Summary Delete employee
// @Tags employee
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} DeleteEmployeeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /employee/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	owner, id, err := ownerAndID(c)
	if err != nil {
		return err
	}

	if err := h.employeeService.Delete(c.Request().Context(), owner, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, DeleteEmployeeResponse{
		Message: "Employee removed",
		ID:      id.String(),
	})
}

// ownerAndID resolves the caller and the :id path parameter.
// An id that is not a UUID cannot name any record, so it is reported as not found.
func ownerAndID(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	owner, ok := middleware.IdentityFrom(c)
	if !ok {
		return uuid.Nil, uuid.Nil, httpError(apperrors.ErrUnauthenticated)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, httpError(apperrors.ErrEmployeeNotFound)
	}
	return owner.ID, id, nil
}
