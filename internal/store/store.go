// Package store is the gorm repository behind every workflow.
package store

import (
	"context"
	"errors"

	"hoops_signup/internal/apperr"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the handle the store runs on (a transaction inside Transaction).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) with(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// notFound maps gorm.ErrRecordNotFound to an apperr.NotFound with code/msg and
// wraps everything else as a DB_ERROR.
func notFound(err error, code, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(code, msg)
	}
	return dbErr(err)
}

func dbErr(err error) error {
	return apperr.Wrap(err, "DB_ERROR", "database error")
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
