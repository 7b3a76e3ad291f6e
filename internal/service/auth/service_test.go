package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenith-erp/erp-backend-go/internal/domain/auth"
	"github.com/zenith-erp/erp-backend-go/internal/domain/employee"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/jwt"
	"github.com/zenith-erp/erp-backend-go/internal/repository/sqlite"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret    = "test-secret-key-for-jwt"
	testAccessExp = "1h"
	testPassword  = "password123"
)

func newTestAuthService(t *testing.T) auth.AuthService {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	require.NoError(t, err)

	err = store.CreateEmployee(context.Background(), employee.Employee{
		ID:           "emp-1",
		EmployeeCode: "1000-0001",
		FullName:     "Login Test Employee",
		PasswordHash: string(hashed),
		Active:       true,
	})
	require.NoError(t, err)

	err = store.CreateEmployee(context.Background(), employee.Employee{
		ID:           "emp-2",
		EmployeeCode: "1000-0002",
		FullName:     "Deactivated Employee",
		PasswordHash: string(hashed),
		Active:       false,
	})
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	return NewAuthService(store, jwtService)
}

func TestAuthService_Login_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestAuthService(t)

	resp, err := svc.Login(ctx, auth.LoginRequest{
		EmployeeCode: "1000-0001",
		Password:     testPassword,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.ExpiresAt, int64(0))
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, "Login Test Employee", resp.FullName)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Login(ctx, auth.LoginRequest{
		EmployeeCode: "1000-0001",
		Password:     "wrong-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestAuthService(t)

	// An unknown code and a wrong password must be indistinguishable to
	// the caller.
	_, err := svc.Login(ctx, auth.LoginRequest{
		EmployeeCode: "9999-9999",
		Password:     testPassword,
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Login(ctx, auth.LoginRequest{
		EmployeeCode: "1000-0002",
		Password:     testPassword,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestAuthService_Login_ValidationErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestAuthService(t)

	cases := []struct {
		name string
		req  auth.LoginRequest
	}{
		{"empty request", auth.LoginRequest{}},
		{"missing password", auth.LoginRequest{EmployeeCode: "1000-0001"}},
		{"malformed code", auth.LoginRequest{EmployeeCode: "not-a-code", Password: testPassword}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Login(ctx, c.req)
			require.Error(t, err)
		})
	}
}
