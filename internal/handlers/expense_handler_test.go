package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

const testExpenseID = "0190f1c2-0000-7000-8000-0000000000e1"

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", injectIdentity(testUserID))
	api.GET("/expenses", handler.ListExpenses)
	api.POST("/expenses", handler.CreateExpense)
	api.GET("/expenses/:id", handler.GetExpense)
	api.PUT("/expenses/:id", handler.UpdateExpense)
	api.DELETE("/expenses/:id", handler.DeleteExpense)
	api.GET("/summary/expenses", handler.SummarizeExpenses)
	return r
}

func sampleExpense(owner string, f services.ExpenseFields) *models.Expense {
	return &models.Expense{
		Base:     models.Base{ID: testExpenseID, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		UserID:   owner,
		Title:    f.Title,
		Amount:   f.Amount,
		Category: f.Category,
		Date:     f.Date,
		Notes:    f.Notes,
	}
}

func TestExpenseHandler_List(t *testing.T) {
	t.Run("returns empty array", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/api/expenses", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "[]" {
			t.Errorf("expected [], got %s", rec.Body.String())
		}
	})

	t.Run("passes caller identity", func(t *testing.T) {
		var got auth.Identity
		svc := &mockExpenseService{
			listFn: func(owner auth.Identity) ([]models.Expense, error) {
				got = owner
				return []models.Expense{*sampleExpense(owner.UserID, services.ExpenseFields{
					Title: "Coffee", Amount: 3.5, Category: "Food",
					Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				})}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/api/expenses", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.UserID != testUserID {
			t.Errorf("expected owner %s, got %s", testUserID, got.UserID)
		}
		if want := `"date":"2024-01-01"`; !strings.Contains(rec.Body.String(), want) {
			t.Errorf("expected %s in %s", want, rec.Body.String())
		}
	})

	t.Run("returns 500 on storage error", func(t *testing.T) {
		svc := &mockExpenseService{
			listFn: func(auth.Identity) ([]models.Expense, error) {
				return nil, apperrors.Wrap(apperrors.ErrStorage, errors.New("connection refused"))
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/api/expenses", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "STORAGE_ERROR")
		if strings.Contains(rec.Body.String(), "connection refused") {
			t.Error("internal error must not leak to clients")
		}
	})
}

func TestExpenseHandler_Create(t *testing.T) {
	t.Run("returns 201 with owner from token", func(t *testing.T) {
		var gotFields services.ExpenseFields
		audit := &mockAuditService{}
		svc := &mockExpenseService{
			createFn: func(owner auth.Identity, f services.ExpenseFields) (*models.Expense, error) {
				gotFields = f
				return sampleExpense(owner.UserID, f), nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit))

		rec := doRequest(r, "POST", "/api/expenses",
			`{"title":"Coffee","amount":3.5,"category":"Food","date":"2024-01-01","user_id":"someone-else"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["user_id"] != testUserID {
			t.Errorf("owner must come from the token, got %v", result["user_id"])
		}
		if result["id"] != testExpenseID {
			t.Errorf("expected id %s, got %v", testExpenseID, result["id"])
		}
		if !gotFields.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date %v", gotFields.Date)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_EXPENSE" {
			t.Errorf("expected CREATE_EXPENSE audit entry, got %v", audit.actions)
		}
	})

	cases := []struct {
		name string
		body string
	}{
		{"missing amount", `{"title":"Coffee","category":"Food","date":"2024-01-01"}`},
		{"zero amount", `{"title":"Coffee","amount":0,"category":"Food","date":"2024-01-01"}`},
		{"missing title", `{"amount":3.5,"category":"Food","date":"2024-01-01"}`},
		{"blank category", `{"title":"Coffee","amount":3.5,"category":" ","date":"2024-01-01"}`},
		{"missing date", `{"title":"Coffee","amount":3.5,"category":"Food"}`},
		{"bad date", `{"title":"Coffee","amount":3.5,"category":"Food","date":"yesterday"}`},
		{"amount as string", `{"title":"Coffee","amount":"3.5","category":"Food","date":"2024-01-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			svc := &mockExpenseService{
				createFn: func(auth.Identity, services.ExpenseFields) (*models.Expense, error) {
					called = true
					return &models.Expense{}, nil
				},
			}
			r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

			rec := doRequest(r, "POST", "/api/expenses", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
			if called {
				t.Error("service must not be called for invalid input")
			}
		})
	}
}

func TestExpenseHandler_Get(t *testing.T) {
	svc := &mockExpenseService{
		getFn: func(_ auth.Identity, id string) (*models.Expense, error) {
			if id != testExpenseID {
				return nil, apperrors.ErrExpenseNotFound
			}
			return sampleExpense(testUserID, services.ExpenseFields{Title: "Coffee", Amount: 1, Category: "Food"}), nil
		},
	}
	r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/api/expenses/"+testExpenseID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(r, "GET", "/api/expenses/other", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
}

func TestExpenseHandler_Update(t *testing.T) {
	t.Run("returns 200 with replaced record", func(t *testing.T) {
		var gotID string
		var gotFields services.ExpenseFields
		audit := &mockAuditService{}
		svc := &mockExpenseService{
			updateFn: func(owner auth.Identity, id string, f services.ExpenseFields) (*models.Expense, error) {
				gotID, gotFields = id, f
				return sampleExpense(owner.UserID, f), nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit))

		rec := doRequest(r, "PUT", "/api/expenses/"+testExpenseID,
			`{"title":"Lunch","amount":11,"category":"Dining","date":"2024-02-03"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != testExpenseID || gotFields.Title != "Lunch" || gotFields.Notes != "" {
			t.Errorf("unexpected update call: %s %+v", gotID, gotFields)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "UPDATE_EXPENSE" {
			t.Errorf("expected UPDATE_EXPENSE audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 404 when not owned", func(t *testing.T) {
		svc := &mockExpenseService{
			updateFn: func(auth.Identity, string, services.ExpenseFields) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/api/expenses/"+testExpenseID,
			`{"title":"Lunch","amount":11,"category":"Dining","date":"2024-02-03"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "EXPENSE_NOT_FOUND")
		if result["error"] != "Expense not found" {
			t.Errorf("unexpected message %v", result["error"])
		}
	})

	t.Run("returns 400 on missing fields", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/api/expenses/"+testExpenseID, `{"title":"Lunch"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_Delete(t *testing.T) {
	t.Run("returns 200 with message", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, audit))

		rec := doRequest(r, "DELETE", "/api/expenses/"+testExpenseID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["message"] != "Expense deleted successfully" {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DELETE_EXPENSE" {
			t.Errorf("expected DELETE_EXPENSE audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		audit := &mockAuditService{}
		svc := &mockExpenseService{
			deleteFn: func(auth.Identity, string) error { return apperrors.ErrExpenseNotFound },
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit))

		rec := doRequest(r, "DELETE", "/api/expenses/"+testExpenseID, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(audit.actions) != 0 {
			t.Errorf("failed delete must not be audited, got %v", audit.actions)
		}
	})
}

func TestExpenseHandler_Summarize(t *testing.T) {
	svc := &mockExpenseService{
		summarizeFn: func(auth.Identity) ([]services.CategoryTotal, error) {
			return []services.CategoryTotal{{Category: "Food", Total: 7.5, Count: 2}}, nil
		},
	}
	r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/api/summary/expenses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if want := `[{"category":"Food","total":7.5,"count":2}]`; rec.Body.String() != want {
		t.Errorf("expected %s, got %s", want, rec.Body.String())
	}
}
