package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork runs fn inside one transaction. The transaction commits when fn returns nil
// and rolls back exactly once when fn fails, panics, or ctx is cancelled.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}
