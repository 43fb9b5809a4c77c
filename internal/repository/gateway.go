package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Fields is a partial record keyed by persisted column name.
type Fields map[string]interface{}

// ErrUnknownColumn is returned when an update names a column the table does not expose.
type ErrUnknownColumn struct {
	Table  string
	Column string
}

func (e *ErrUnknownColumn) Error() string {
	return fmt.Sprintf("unknown column %q for table %s", e.Column, e.Table)
}

func columnSet(columns ...string) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return set
}

// updateByID writes the given columns of a single row. Keys are applied in sorted order so the
// generated statement is stable.
func updateByID(ctx context.Context, db *sqlx.DB, table string, allowed map[string]bool, id int64, fields Fields) error {
	if len(fields) == 0 {
		return fmt.Errorf("update %s: no fields", table)
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if !allowed[key] {
			return &ErrUnknownColumn{Table: table, Column: key}
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys)+1)
	for _, key := range keys {
		sets = append(sets, key+" = ?")
		args = append(args, fields[key])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s update rows: %w", table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func deleteByID(ctx context.Context, db *sqlx.DB, table string, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)
	result, err := db.ExecContext(ctx, db.Rebind(query), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s delete rows: %w", table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func insertReturningID(ctx context.Context, db *sqlx.DB, table string, columns []string, args []interface{}) (int64, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id", table, strings.Join(columns, ", "), placeholders)
	var id int64
	if err := db.GetContext(ctx, &id, db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return id, nil
}
