package services

import (
	"context"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/models"
)

// UserServicer defines the credential store.
type UserServicer interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// LoginResult is a freshly issued bearer token and the user it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthServicer issues bearer tokens for valid credentials.
type AuthServicer interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// ExpenseFields are the client-editable fields of an expense. Update
// replaces all of them.
type ExpenseFields struct {
	Title    string
	Amount   float64
	Category string
	Date     time.Time
	Notes    string
}

// CategoryTotal aggregates one category of an owner's expenses.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

// ExpenseServicer defines the owner-scoped expense store.
type ExpenseServicer interface {
	List(ctx context.Context, owner auth.Identity) ([]models.Expense, error)
	Create(ctx context.Context, owner auth.Identity, fields ExpenseFields) (*models.Expense, error)
	Get(ctx context.Context, owner auth.Identity, id string) (*models.Expense, error)
	Update(ctx context.Context, owner auth.Identity, id string, fields ExpenseFields) (*models.Expense, error)
	Delete(ctx context.Context, owner auth.Identity, id string) error
	Summarize(ctx context.Context, owner auth.Identity) ([]CategoryTotal, error)
}

// HabitFields are the client-editable fields of a habit. Update replaces
// all of them.
type HabitFields struct {
	Name        string
	Description string
	Frequency   models.HabitFrequency
}

// HabitServicer defines the owner-scoped habit store.
type HabitServicer interface {
	List(ctx context.Context, owner auth.Identity) ([]models.Habit, error)
	Create(ctx context.Context, owner auth.Identity, fields HabitFields) (*models.Habit, error)
	Get(ctx context.Context, owner auth.Identity, id string) (*models.Habit, error)
	Update(ctx context.Context, owner auth.Identity, id string, fields HabitFields) (*models.Habit, error)
	Delete(ctx context.Context, owner auth.Identity, id string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
