package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenith-erp/erp-backend-go/internal/domain/employee"
	"github.com/zenith-erp/erp-backend-go/internal/pkg/jwt"
	"github.com/zenith-erp/erp-backend-go/internal/repository/sqlite"
	attendanceService "github.com/zenith-erp/erp-backend-go/internal/service/attendance"
	authService "github.com/zenith-erp/erp-backend-go/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAccessExp = "1h"
	handlerTestPassword  = "password123"
)

type testEnv struct {
	router      http.Handler
	accessToken string
	employeeID  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hashed, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.DefaultCost)
	require.NoError(t, err)
	err = store.CreateEmployee(context.Background(), employee.Employee{
		ID:           "emp-1",
		EmployeeCode: "1000-0001",
		FullName:     "Handler Test Employee",
		PasswordHash: string(hashed),
		Active:       true,
	})
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	authSvc := authService.NewAuthService(store, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(store, store)

	router := NewRouter(
		jwtService,
		NewAuthHandler(authSvc),
		NewAttendanceHandler(attendanceSvc),
		"http://localhost:3000",
		"test",
	)

	token, _, err := jwtService.GenerateAccessToken("emp-1", "1000-0001")
	require.NoError(t, err)

	return &testEnv{router: router, accessToken: token, employeeID: "emp-1"}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.accessToken)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAttendanceHandler_Clock_InThenOut(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/attendance/clock", map[string]string{
		"employee_id": env.employeeID,
		"action":      "in",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Working", data["status"])
	assert.Equal(t, true, data["is_clocked_in"])
	assert.Nil(t, data["duration"])

	w = env.do(t, http.MethodPost, "/api/v1/attendance/clock", map[string]string{
		"employee_id": env.employeeID,
		"action":      "out",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["is_clocked_in"])
	assert.NotNil(t, data["duration"])
}

func TestAttendanceHandler_Clock_OutWithoutIn(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/attendance/clock", map[string]string{
		"employee_id": env.employeeID,
		"action":      "out",
	}, true)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	errDetail := body["error"].(map[string]interface{})
	assert.Equal(t, "BAD_REQUEST", errDetail["code"])
}

func TestAttendanceHandler_Clock_ValidationError(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/attendance/clock", map[string]string{
		"employee_id": "",
		"action":      "sideways",
	}, true)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errDetail := decodeBody(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errDetail["code"])
	details := errDetail["details"].(map[string]interface{})
	assert.Contains(t, details, "employee_id")
	assert.Contains(t, details, "action")
}

func TestAttendanceHandler_Clock_UnknownEmployee(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/attendance/clock", map[string]string{
		"employee_id": "nobody",
		"action":      "in",
	}, true)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceHandler_Clock_MalformedBody(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.accessToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandler_RequiresAuth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/attendance/clock"},
		{http.MethodGet, "/api/v1/attendance/dashboard-summary"},
		{http.MethodGet, "/api/v1/attendance/history"},
	}
	for _, p := range paths {
		w := env.do(t, p.method, p.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s must require auth", p.method, p.path)
	}
}

func TestAttendanceHandler_DashboardSummary(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/attendance/clock", map[string]string{
		"employee_id": env.employeeID,
		"action":      "in",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/attendance/dashboard-summary?employee_id="+env.employeeID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-cache")

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Working", data["status"])
	assert.Equal(t, true, data["is_clocked_in"])
	assert.NotNil(t, data["clock_in"])
	assert.Nil(t, data["clock_out"])
}

func TestAttendanceHandler_DashboardSummary_BadDate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/attendance/dashboard-summary?employee_id="+env.employeeID+"&date=tomorrow", nil, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAttendanceHandler_History(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/attendance/clock", map[string]string{
		"employee_id": env.employeeID,
		"action":      "in",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/attendance/history?employee_id="+env.employeeID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	days := data["days"].([]interface{})
	assert.NotEmpty(t, days)

	first := days[0].(map[string]interface{})
	blocks := first["blocks"].([]interface{})
	assert.Len(t, blocks, 48)

	summary := data["summary"].(map[string]interface{})
	assert.Contains(t, summary, "total_hours")
	assert.Contains(t, summary, "present_days")
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"employee_code": "1000-0001",
		"password":      handlerTestPassword,
	}, false)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.Equal(t, "emp-1", data["employee_id"])
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"employee_code": "1000-0001",
		"password":      "nope",
	}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
