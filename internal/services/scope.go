package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/uuid"
)

// ownedBy restricts db to the records of owner. The owner predicate always
// comes first in the generated WHERE clause.
func ownedBy(db *gorm.DB, owner auth.Identity) *gorm.DB {
	return db.Where("user_id = ?", owner.UserID)
}

// listOwned returns every T owned by owner in store order.
func listOwned[T any](ctx context.Context, db *gorm.DB, owner auth.Identity) ([]T, error) {
	records := []T{}
	if err := ownedBy(db.WithContext(ctx), owner).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return records, nil
}

// findOwned loads the T with the given id if, and only if, it belongs to
// owner. Ids are matched in canonical form; malformed, foreign and missing
// ids all yield notFound.
func findOwned[T any](ctx context.Context, db *gorm.DB, owner auth.Identity, id string, notFound *apperrors.AppError) (*T, error) {
	id, err := uuid.Parse(id)
	if err != nil {
		return nil, notFound
	}

	var record T
	err = ownedBy(db.WithContext(ctx), owner).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &record, nil
}

// deleteOwned permanently removes the T with the given id owned by owner in
// a single filtered statement.
func deleteOwned[T any](ctx context.Context, db *gorm.DB, owner auth.Identity, id string, notFound *apperrors.AppError) error {
	id, err := uuid.Parse(id)
	if err != nil {
		return notFound
	}

	var model T
	result := ownedBy(db.WithContext(ctx), owner).Where("id = ?", id).Delete(&model)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// replaceOwned loads the T owned by owner inside a transaction, applies
// replace to it, and saves every column.
func replaceOwned[T any](ctx context.Context, db *gorm.DB, owner auth.Identity, id string, notFound *apperrors.AppError, replace func(*T)) (*T, error) {
	var updated *T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := findOwned[T](ctx, tx, owner, id, notFound)
		if err != nil {
			return err
		}
		replace(record)
		if err := tx.Save(record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		updated = record
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return updated, nil
}
