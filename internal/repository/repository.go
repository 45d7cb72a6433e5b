package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"webdating-engagement/internal/domain"
)

type Repositories struct {
	User         UserRepository
	Post         PostRepository
	Comment      CommentRepository
	Reaction     ReactionRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return newRepositories(db)
}

func newRepositories(db sqlx.ExtContext) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Post:         NewPostRepository(db),
		Comment:      NewCommentRepository(db),
		Reaction:     NewReactionRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

// Tx is a unit of work. Repositories obtained from it write inside the same
// database transaction; nothing is visible to other readers before Commit.
type Tx interface {
	Posts() PostRepository
	Comments() CommentRepository
	Reactions() ReactionRepository
	Notifications() NotificationRepository
	Commit() error
	Rollback() error
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Tx, error)
}

type sqlUnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) Begin(ctx context.Context) (Tx, error) {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx, repos: newRepositories(tx)}, nil
}

type sqlTx struct {
	tx    *sqlx.Tx
	repos *Repositories
}

func (t *sqlTx) Posts() PostRepository                 { return t.repos.Post }
func (t *sqlTx) Comments() CommentRepository           { return t.repos.Comment }
func (t *sqlTx) Reactions() ReactionRepository         { return t.repos.Reaction }
func (t *sqlTx) Notifications() NotificationRepository { return t.repos.Notification }
func (t *sqlTx) Commit() error                         { return t.tx.Commit() }
func (t *sqlTx) Rollback() error                       { return t.tx.Rollback() }

// RunInTx runs fn inside a unit of work. Errors from fn roll the transaction
// back and are returned as is; a failed begin or commit is reported as
// domain.ErrCommit.
func RunInTx(ctx context.Context, uow UnitOfWork, fn func(tx Tx) error) error {
	tx, err := uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrCommit, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCommit, err)
	}
	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
