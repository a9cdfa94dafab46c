// Package repository is the MySQL implementation of the inventory
// store.  Every repository runs its statements through a querier, so
// the same code serves plain reads on the pool and units of work
// inside a *sql.Tx.  Driver errors are translated to the inventory
// sentinels: a missing row becomes inventory.ErrNotFound and a
// duplicate key becomes inventory.ErrConflict, which handlers turn
// into 404 and 409 responses.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/flight-inventory/internal/inventory"
)

// MySQL server error numbers the repositories care about.
const (
	errDupEntry        = 1062
	errNoReferencedRow = 1452
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// translate maps driver errors onto the inventory sentinels and adds
// what was being done.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, inventory.ErrNotFound)
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDupEntry:
			return fmt.Errorf("%s: %w: %s", what, inventory.ErrConflict, me.Message)
		case errNoReferencedRow:
			return fmt.Errorf("%s: %w: %s", what, inventory.ErrNotFound, me.Message)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// mustAffect turns a zero-row update or delete into ErrNotFound.
func mustAffect(res sql.Result, what string) error {
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", what, inventory.ErrNotFound)
	}
	return nil
}

// lastID reads the AUTO_INCREMENT id of an insert.
func lastID(res sql.Result) (uint64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// placeholders returns "?,?,?" with n marks.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}

func idArgs(ids []uint64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
