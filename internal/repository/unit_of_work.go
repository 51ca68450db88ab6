package repository

import (
	"context"
	"database/sql"
	"fmt"

	domainRepo "medical-appointment-api/internal/domain/repository"

	"gorm.io/gorm"
)

type unitOfWork struct {
	db   *gorm.DB
	opts []*sql.TxOptions
}

// NewUnitOfWork scopes transactions on db. opts, when given, set the isolation level.
func NewUnitOfWork(db *gorm.DB, opts ...*sql.TxOptions) domainRepo.UnitOfWork {
	return &unitOfWork{db: db, opts: opts}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := u.db.WithContext(ctx).Begin(u.opts...)
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		// also runs while a panic unwinds
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	// database/sql rolls the tx back on its own once ctx is done
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true

	return nil
}
