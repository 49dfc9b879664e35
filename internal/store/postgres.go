package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"landmarkbot/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordsTableName = "landmarkbot.records"

type fieldRow struct {
	Field string `db:"field"`
	Value string `db:"value"`
}

// PostgresRepository keeps each record field as a row of the records table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, key string, set map[string]string, del []string) error {
	if len(set) == 0 && len(del) == 0 {
		return nil
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if len(set) > 0 {
			query, args, err := upsertFieldsQuery(key, set)
			if err != nil {
				return fmt.Errorf("build upsert fields query: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert fields of %s: %w", key, err)
			}
		}

		if len(del) > 0 {
			query, args, err := deleteFieldsQuery(key, del)
			if err != nil {
				return fmt.Errorf("build delete fields query: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("delete fields of %s: %w", key, err)
			}
		}

		return nil
	})
}

func (r *PostgresRepository) Fields(ctx context.Context, key string) (map[string]string, error) {
	query, args, err := psql().
		Select("field", "value").
		From(recordsTableName).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fields query: %w", err)
	}

	var rows []fieldRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fields of %s: %w", key, err)
	}

	fields := make(map[string]string, len(rows))
	for _, row := range rows {
		fields[row.Field] = row.Value
	}

	return fields, nil
}

func (r *PostgresRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := keysQuery(prefix)
	if err != nil {
		return nil, fmt.Errorf("build keys query: %w", err)
	}

	keys := make([]string, 0)
	if err := pgxscan.Select(ctx, r.pool, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("select keys with prefix %s: %w", prefix, err)
	}

	return keys, nil
}

// Rename moves every row of from to to inside one transaction. It fails with
// types.ErrKeyExists when to already has rows.
func (r *PostgresRepository) Rename(ctx context.Context, from, to string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query, args, err := countKeyQuery(to)
		if err != nil {
			return fmt.Errorf("build rename target query: %w", err)
		}

		var existing int
		if err := tx.QueryRow(ctx, query, args...).Scan(&existing); err != nil {
			return fmt.Errorf("check rename target %s: %w", to, err)
		}
		if existing > 0 {
			return fmt.Errorf("rename %s to %s: %w", from, to, types.ErrKeyExists)
		}

		query, args, err = renameKeyQuery(from, to)
		if err != nil {
			return fmt.Errorf("build rename query: %w", err)
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("rename %s to %s: %w", from, to, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("rename %s: %w", from, types.ErrRecordNotFound)
		}

		return nil
	})
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func upsertFieldsQuery(key string, set map[string]string) (string, []any, error) {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	insert := psql().
		Insert(recordsTableName).
		Columns("key", "field", "value")
	for _, name := range names {
		insert = insert.Values(key, name, set[name])
	}

	return insert.
		Suffix("ON CONFLICT (key, field) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
}

func deleteFieldsQuery(key string, fields []string) (string, []any, error) {
	return psql().
		Delete(recordsTableName).
		Where(sq.Eq{"key": key, "field": fields}).
		ToSql()
}

func countKeyQuery(key string) (string, []any, error) {
	return psql().
		Select("count(*)").
		From(recordsTableName).
		Where(sq.Eq{"key": key}).
		ToSql()
}

func renameKeyQuery(from, to string) (string, []any, error) {
	return psql().
		Update(recordsTableName).
		Set("key", to).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"key": from}).
		ToSql()
}

func keysQuery(prefix string) (string, []any, error) {
	return psql().
		Select("key").
		Distinct().
		From(recordsTableName).
		Where(sq.Like{"key": escapeLike(prefix) + "%"}).
		OrderBy("key").
		ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
