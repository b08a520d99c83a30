package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// habitService handles habit business logic.
type habitService struct {
	db *gorm.DB
}

// NewHabitService creates a new HabitServicer.
func NewHabitService(db *gorm.DB) HabitServicer {
	return &habitService{db: db}
}

func validateHabitFields(f HabitFields) error {
	if strings.TrimSpace(f.Name) == "" {
		return apperrors.WithMessage(apperrors.ErrValidation, "Name and frequency are required")
	}
	if !f.Frequency.Valid() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Frequency must be one of daily, weekly, monthly")
	}
	return nil
}

// List returns all habits of owner.
func (s *habitService) List(ctx context.Context, owner auth.Identity) ([]models.Habit, error) {
	return listOwned[models.Habit](ctx, s.db, owner)
}

// Create stores a new habit for owner.
func (s *habitService) Create(ctx context.Context, owner auth.Identity, fields HabitFields) (*models.Habit, error) {
	if err := validateHabitFields(fields); err != nil {
		return nil, err
	}

	habit := &models.Habit{
		UserID:      owner.UserID,
		Name:        fields.Name,
		Description: fields.Description,
		Frequency:   fields.Frequency,
	}
	if err := s.db.WithContext(ctx).Create(habit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return habit, nil
}

// Get retrieves a single habit of owner.
func (s *habitService) Get(ctx context.Context, owner auth.Identity, id string) (*models.Habit, error) {
	return findOwned[models.Habit](ctx, s.db, owner, id, apperrors.ErrHabitNotFound)
}

// Update replaces every editable field of a habit of owner.
func (s *habitService) Update(ctx context.Context, owner auth.Identity, id string, fields HabitFields) (*models.Habit, error) {
	if err := validateHabitFields(fields); err != nil {
		return nil, err
	}

	return replaceOwned(ctx, s.db, owner, id, apperrors.ErrHabitNotFound, func(h *models.Habit) {
		h.Name = fields.Name
		h.Description = fields.Description
		h.Frequency = fields.Frequency
	})
}

// Delete permanently removes a habit of owner.
func (s *habitService) Delete(ctx context.Context, owner auth.Identity, id string) error {
	return deleteOwned[models.Habit](ctx, s.db, owner, id, apperrors.ErrHabitNotFound)
}
