package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

func setupHabitRouter(handler *HabitHandler) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", injectIdentity(testUserID))
	api.GET("/habits", handler.ListHabits)
	api.POST("/habits", handler.CreateHabit)
	api.GET("/habits/:id", handler.GetHabit)
	api.PUT("/habits/:id", handler.UpdateHabit)
	api.DELETE("/habits/:id", handler.DeleteHabit)
	return r
}

func TestHabitHandler_Create(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		var got services.HabitFields
		svc := &mockHabitService{
			createFn: func(owner auth.Identity, f services.HabitFields) (*models.Habit, error) {
				got = f
				return &models.Habit{UserID: owner.UserID, Name: f.Name, Frequency: f.Frequency}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupHabitRouter(NewHabitHandler(svc, audit))

		rec := doRequest(r, "POST", "/api/habits", `{"name":"Read","frequency":"weekly"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Frequency != models.HabitFrequencyWeekly {
			t.Errorf("expected weekly, got %s", got.Frequency)
		}
		if parseJSON(t, rec)["user_id"] != testUserID {
			t.Error("owner must come from the token")
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_HABIT" {
			t.Errorf("expected CREATE_HABIT audit entry, got %v", audit.actions)
		}
	})

	for _, body := range []string{
		`{"frequency":"daily"}`,
		`{"name":"Read"}`,
		`{"name":"Read","frequency":"hourly"}`,
	} {
		t.Run("returns 400 for "+body, func(t *testing.T) {
			r := setupHabitRouter(NewHabitHandler(&mockHabitService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/api/habits", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
		})
	}
}

func TestHabitHandler_List(t *testing.T) {
	r := setupHabitRouter(NewHabitHandler(&mockHabitService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/api/habits", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "[]" {
		t.Fatalf("expected 200 [], got %d %s", rec.Code, rec.Body.String())
	}
}

func TestHabitHandler_NotFound(t *testing.T) {
	svc := &mockHabitService{
		getFn: func(auth.Identity, string) (*models.Habit, error) { return nil, apperrors.ErrHabitNotFound },
		updateFn: func(auth.Identity, string, services.HabitFields) (*models.Habit, error) {
			return nil, apperrors.ErrHabitNotFound
		},
		deleteFn: func(auth.Identity, string) error { return apperrors.ErrHabitNotFound },
	}
	r := setupHabitRouter(NewHabitHandler(svc, &mockAuditService{}))

	for _, tc := range []struct{ method, body string }{
		{"GET", ""},
		{"PUT", `{"name":"Read","frequency":"daily"}`},
		{"DELETE", ""},
	} {
		rec := doRequest(r, tc.method, "/api/habits/missing", tc.body)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", tc.method, rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "HABIT_NOT_FOUND")
	}
}

func TestHabitHandler_UpdateDelete(t *testing.T) {
	audit := &mockAuditService{}
	svc := &mockHabitService{
		updateFn: func(owner auth.Identity, id string, f services.HabitFields) (*models.Habit, error) {
			return &models.Habit{Base: models.Base{ID: id}, UserID: owner.UserID, Name: f.Name, Frequency: f.Frequency}, nil
		},
	}
	r := setupHabitRouter(NewHabitHandler(svc, audit))

	rec := doRequest(r, "PUT", "/api/habits/h1", `{"name":"Run","frequency":"monthly"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["frequency"] != "monthly" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	rec = doRequest(r, "DELETE", "/api/habits/h1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(audit.actions) != 2 || audit.actions[0] != "UPDATE_HABIT" || audit.actions[1] != "DELETE_HABIT" {
		t.Errorf("unexpected audit entries %v", audit.actions)
	}
}
