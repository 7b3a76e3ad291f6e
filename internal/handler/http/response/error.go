package response

import (
	"errors"
	"net/http"

	"github.com/zenith-erp/erp-backend-go/internal/domain/attendance"
	"github.com/zenith-erp/erp-backend-go/internal/domain/auth"
	"github.com/zenith-erp/erp-backend-go/internal/domain/employee"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidTransition):
		BadRequest(w, "Cannot clock out without a prior clock in", nil)
	case errors.Is(err, attendance.ErrUnknownAction):
		BadRequest(w, "Action must be 'in' or 'out'", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Unauthorized(w, "Employee is not active")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid employee code or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Storage and everything else: the transaction has been rolled back,
	// so retrying the whole operation is safe.
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
