package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	registerFn       func(name, email, password string) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id string) (*models.User, error)
}

func (m *mockUserService) Register(_ context.Context, name, email, password string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(name, email, password)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Name: name, Email: email}, nil
}

func (m *mockUserService) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

type mockAuthService struct {
	loginFn func(email, password string) (*services.LoginResult, error)
}

func (m *mockAuthService) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(email, password)
	}
	return &services.LoginResult{Token: "token", User: &models.User{}}, nil
}

type mockExpenseService struct {
	listFn      func(owner auth.Identity) ([]models.Expense, error)
	createFn    func(owner auth.Identity, f services.ExpenseFields) (*models.Expense, error)
	getFn       func(owner auth.Identity, id string) (*models.Expense, error)
	updateFn    func(owner auth.Identity, id string, f services.ExpenseFields) (*models.Expense, error)
	deleteFn    func(owner auth.Identity, id string) error
	summarizeFn func(owner auth.Identity) ([]services.CategoryTotal, error)
}

func (m *mockExpenseService) List(_ context.Context, owner auth.Identity) ([]models.Expense, error) {
	if m.listFn != nil {
		return m.listFn(owner)
	}
	return []models.Expense{}, nil
}

func (m *mockExpenseService) Create(_ context.Context, owner auth.Identity, f services.ExpenseFields) (*models.Expense, error) {
	if m.createFn != nil {
		return m.createFn(owner, f)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Get(_ context.Context, owner auth.Identity, id string) (*models.Expense, error) {
	if m.getFn != nil {
		return m.getFn(owner, id)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Update(_ context.Context, owner auth.Identity, id string, f services.ExpenseFields) (*models.Expense, error) {
	if m.updateFn != nil {
		return m.updateFn(owner, id, f)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Delete(_ context.Context, owner auth.Identity, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(owner, id)
	}
	return nil
}

func (m *mockExpenseService) Summarize(_ context.Context, owner auth.Identity) ([]services.CategoryTotal, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(owner)
	}
	return []services.CategoryTotal{}, nil
}

type mockHabitService struct {
	listFn   func(owner auth.Identity) ([]models.Habit, error)
	createFn func(owner auth.Identity, f services.HabitFields) (*models.Habit, error)
	getFn    func(owner auth.Identity, id string) (*models.Habit, error)
	updateFn func(owner auth.Identity, id string, f services.HabitFields) (*models.Habit, error)
	deleteFn func(owner auth.Identity, id string) error
}

func (m *mockHabitService) List(_ context.Context, owner auth.Identity) ([]models.Habit, error) {
	if m.listFn != nil {
		return m.listFn(owner)
	}
	return []models.Habit{}, nil
}

func (m *mockHabitService) Create(_ context.Context, owner auth.Identity, f services.HabitFields) (*models.Habit, error) {
	if m.createFn != nil {
		return m.createFn(owner, f)
	}
	return &models.Habit{}, nil
}

func (m *mockHabitService) Get(_ context.Context, owner auth.Identity, id string) (*models.Habit, error) {
	if m.getFn != nil {
		return m.getFn(owner, id)
	}
	return &models.Habit{}, nil
}

func (m *mockHabitService) Update(_ context.Context, owner auth.Identity, id string, f services.HabitFields) (*models.Habit, error) {
	if m.updateFn != nil {
		return m.updateFn(owner, id, f)
	}
	return &models.Habit{}, nil
}

func (m *mockHabitService) Delete(_ context.Context, owner auth.Identity, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(owner, id)
	}
	return nil
}

type mockAuditService struct {
	actions []string
}

func (m *mockAuditService) Log(_ context.Context, _, action, _, _, _ string, _ map[string]interface{}) {
	m.actions = append(m.actions, action)
}

// --- test helpers ---

const testUserID = "0190f1c2-0000-7000-8000-000000000001"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func injectIdentity(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), auth.Identity{UserID: userID}))
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	if _, ok := result["error"].(string); !ok {
		t.Fatalf("expected error message in response, got: %v", result)
	}
	if result["code"] != code {
		t.Errorf("expected error code %q, got %q", code, result["code"])
	}
}
