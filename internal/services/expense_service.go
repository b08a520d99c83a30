package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// expenseService handles expense business logic. Every query is scoped to
// the requesting owner.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

func validateExpenseFields(f ExpenseFields) error {
	if strings.TrimSpace(f.Title) == "" || f.Amount == 0 || strings.TrimSpace(f.Category) == "" || f.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Title, amount, category, and date are required")
	}
	return nil
}

// List returns all expenses of owner. It never returns nil on success.
func (s *expenseService) List(ctx context.Context, owner auth.Identity) ([]models.Expense, error) {
	return listOwned[models.Expense](ctx, s.db, owner)
}

// Create stores a new expense for owner.
func (s *expenseService) Create(ctx context.Context, owner auth.Identity, fields ExpenseFields) (*models.Expense, error) {
	if err := validateExpenseFields(fields); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:   owner.UserID,
		Title:    fields.Title,
		Amount:   fields.Amount,
		Category: fields.Category,
		Date:     models.TruncateDate(fields.Date),
		Notes:    fields.Notes,
	}
	if err := s.db.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return expense, nil
}

// Get retrieves a single expense of owner.
func (s *expenseService) Get(ctx context.Context, owner auth.Identity, id string) (*models.Expense, error) {
	return findOwned[models.Expense](ctx, s.db, owner, id, apperrors.ErrExpenseNotFound)
}

// Update replaces every editable field of an expense of owner.
func (s *expenseService) Update(ctx context.Context, owner auth.Identity, id string, fields ExpenseFields) (*models.Expense, error) {
	if err := validateExpenseFields(fields); err != nil {
		return nil, err
	}

	return replaceOwned(ctx, s.db, owner, id, apperrors.ErrExpenseNotFound, func(e *models.Expense) {
		e.Title = fields.Title
		e.Amount = fields.Amount
		e.Category = fields.Category
		e.Date = models.TruncateDate(fields.Date)
		e.Notes = fields.Notes
	})
}

// Delete permanently removes an expense of owner.
func (s *expenseService) Delete(ctx context.Context, owner auth.Identity, id string) error {
	return deleteOwned[models.Expense](ctx, s.db, owner, id, apperrors.ErrExpenseNotFound)
}

// Summarize totals the expenses of owner per category, ordered by category.
func (s *expenseService) Summarize(ctx context.Context, owner auth.Identity) ([]CategoryTotal, error) {
	totals := []CategoryTotal{}
	err := ownedBy(s.db.WithContext(ctx), owner).
		Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&totals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return totals, nil
}
