package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/flight-inventory/internal/inventory"
)

// Store implements inventory.Store over a MySQL pool.
type Store struct {
	db *sql.DB
}

var _ inventory.Store = (*Store)(nil)

// NewStore wraps an open pool.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// repos bundles every repository over one querier so a single value
// satisfies inventory.Tx.
type repos struct {
	*AircraftRepo
	*AirportRepo
	*FlightRepo
	*SeatRepo
	*BookingRepo
	*TicketRepo
	*UserRepo
}

var _ inventory.Tx = repos{}

func newRepos(q querier) repos {
	return repos{
		AircraftRepo: &AircraftRepo{q: q},
		AirportRepo:  &AirportRepo{q: q},
		FlightRepo:   &FlightRepo{q: q},
		SeatRepo:     &SeatRepo{q: q},
		BookingRepo:  &BookingRepo{q: q},
		TicketRepo:   &TicketRepo{q: q},
		UserRepo:     &UserRepo{q: q},
	}
}

// View runs fn against the pool.  Reads are not isolated from each other.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, tx inventory.Tx) error) error {
	return fn(ctx, newRepos(s.db))
}

// WithinTx runs fn inside a database transaction, committing when fn
// returns nil and rolling back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx inventory.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, newRepos(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
