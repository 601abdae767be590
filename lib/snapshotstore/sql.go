package snapshotstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

//go:embed schema/postgres.sql
var postgresSchema string

type Dialect int

const (
	// DialectSQLite covers both local sqlite files and libsql/turso.
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) schema() string {
	if d == DialectPostgres {
		return postgresSchema
	}
	return sqliteSchema
}

func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// SQLStore appends every snapshot to a table and loads the newest one.
// When Retain is positive only that many snapshots are kept.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	retain  int
	now     func() time.Time
}

// NewSQLStore creates the snapshots table if it does not exist yet.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect, retain int) (SQLStore, error) {
	_, err := db.ExecContext(ctx, dialect.schema())
	if err != nil {
		return SQLStore{}, fmt.Errorf("create snapshots table: %w", err)
	}
	return SQLStore{
		db:      db,
		dialect: dialect,
		retain:  retain,
		now:     time.Now,
	}, nil
}

func (s SQLStore) Load(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "SQLStore:Load")
	defer span.End()

	var data []byte
	err := s.db.QueryRowContext(
		ctx,
		"select data from snapshots order by id desc limit 1",
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query latest snapshot")
		return nil, err
	}
	return data, nil
}

func (s SQLStore) Save(ctx context.Context, data []byte) error {
	ctx, span := tracer.Start(ctx, "SQLStore:Save")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		fmt.Sprintf(
			"insert into snapshots (created_at, data) values (%s, %s)",
			s.dialect.placeholder(1), s.dialect.placeholder(2),
		),
		s.now().Unix(), data,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert snapshot")
		return err
	}

	if s.retain > 0 {
		res, err := tx.ExecContext(
			ctx,
			fmt.Sprintf(
				"delete from snapshots where id not in (select id from snapshots order by id desc limit %s)",
				s.dialect.placeholder(1),
			),
			s.retain,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to prune snapshots")
			return err
		}
		pruned, _ := res.RowsAffected()
		span.SetAttributes(attribute.Int64("pruned", pruned))
	}

	return tx.Commit()
}

// Count returns how many snapshots are currently stored.
func (s SQLStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "select count(*) from snapshots").Scan(&count)
	return count, err
}
