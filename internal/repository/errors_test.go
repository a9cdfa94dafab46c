package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/flight-inventory/internal/inventory"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "noop"))

	err := translate(sql.ErrNoRows, "flight 7")
	assert.ErrorIs(t, err, inventory.ErrNotFound)
	assert.Contains(t, err.Error(), "flight 7")

	err = translate(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'VN-A321' for key 'code'"}, "insert aircraft")
	assert.ErrorIs(t, err, inventory.ErrConflict)

	err = translate(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, "insert seats")
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	boom := errors.New("connection reset")
	err = translate(boom, "list seats")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, inventory.ErrNotFound)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
	assert.Equal(t, []any{uint64(4), uint64(9)}, idArgs([]uint64{4, 9}))
}
