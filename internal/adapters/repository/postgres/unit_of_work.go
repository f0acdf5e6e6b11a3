package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"starmus/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUnitOfWork creates a unit of work backed by db
func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) querier() SQLQuerier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *sqlUnitOfWork) SubmissionRepo() port.SubmissionRepository {
	return NewSQLSubmissionRepository(u.querier())
}

func (u *sqlUnitOfWork) AttachmentRepo() port.AttachmentRepository {
	return NewSQLAttachmentRepository(u.querier())
}

func (u *sqlUnitOfWork) MetadataRepo() port.MetadataRepository {
	return NewSQLMetadataRepository(u.querier())
}

func (u *sqlUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return NewSQLUploadSessionRepository(u.querier())
}

func (u *sqlUnitOfWork) JobRepo() port.JobRepository {
	return NewSQLJobRepository(u.querier())
}

// Execute runs fn in a transaction. Inside a transaction it joins the current one.
func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&sqlUnitOfWork{db: u.db, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
