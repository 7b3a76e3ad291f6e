package employee

import (
	"context"
)

// EmployeeRepository defines the read surface the attendance engine needs.
// Employee CRUD lives elsewhere; this engine only resolves identities.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByCode resolves an employee code for login.
	GetByCode(ctx context.Context, code string) (Employee, error)
}
