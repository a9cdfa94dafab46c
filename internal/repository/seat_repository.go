package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/model"
)

// SeatRepo reads and writes the seats table.
type SeatRepo struct{ q querier }

const seatColumns = `id, flight_id, seat_number, class, available`

func scanSeat(row interface{ Scan(...any) error }, s *model.Seat) error {
	return row.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class, &s.Available)
}

// CreateSeats inserts seats in a single statement and fills in their
// IDs.  InnoDB hands out consecutive ids to a multi-row insert, so the
// first id is enough to number the rest.
func (r *SeatRepo) CreateSeats(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`INSERT INTO seats (flight_id, seat_number, class, available) VALUES `)
	args := make([]any, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("(?, ?, ?, ?)")
		args = append(args, s.FlightID, s.SeatNumber, s.Class, s.Available)
	}
	res, err := r.q.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return translate(err, "insert seats")
	}
	first, err := lastID(res)
	if err != nil {
		return err
	}
	for i := range seats {
		seats[i].ID = first + uint64(i)
	}
	return nil
}

func (r *SeatRepo) GetSeat(ctx context.Context, id uint64) (*model.Seat, error) {
	var s model.Seat
	err := scanSeat(r.q.QueryRowContext(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = ?`, id), &s)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("seat %d", id))
	}
	return &s, nil
}

// ListSeats returns every seat of a flight ordered by id.
func (r *SeatRepo) ListSeats(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	return r.list(ctx, `SELECT `+seatColumns+` FROM seats WHERE flight_id = ? ORDER BY id`, flightID)
}

// ListAvailableSeats returns up to limit available seats of class,
// lowest ids first, locking them inside a transaction.
func (r *SeatRepo) ListAvailableSeats(ctx context.Context, flightID uint64, class model.SeatClass, limit int) ([]model.Seat, error) {
	if limit <= 0 {
		return nil, nil
	}
	const q = `SELECT ` + seatColumns + ` FROM seats
	           WHERE flight_id = ? AND class = ? AND available = TRUE
	           ORDER BY id LIMIT ? FOR UPDATE`
	return r.list(ctx, q, flightID, class, limit)
}

func (r *SeatRepo) list(ctx context.Context, q string, args ...any) ([]model.Seat, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err, "list seats")
	}
	defer rows.Close()

	out := []model.Seat{}
	for rows.Next() {
		var s model.Seat
		if err := scanSeat(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetSeatsAvailable flips the availability flag of the given seats.
func (r *SeatRepo) SetSeatsAvailable(ctx context.Context, ids []uint64, available bool) error {
	if len(ids) == 0 {
		return nil
	}
	q := `UPDATE seats SET available = ? WHERE id IN (` + placeholders(len(ids)) + `)`
	args := append([]any{available}, idArgs(ids)...)
	res, err := r.q.ExecContext(ctx, q, args...)
	if err != nil {
		return translate(err, "update seats")
	}
	if n, _ := res.RowsAffected(); n != int64(len(ids)) {
		return fmt.Errorf("update seats: matched %d of %d: %w", n, len(ids), inventory.ErrNotFound)
	}
	return nil
}

func (r *SeatRepo) DeleteSeats(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.ExecContext(ctx, `DELETE FROM seats WHERE id IN (`+placeholders(len(ids))+`)`, idArgs(ids)...)
	return translate(err, "delete seats")
}

func (r *SeatRepo) DeleteSeatsByFlight(ctx context.Context, flightID uint64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM seats WHERE flight_id = ?`, flightID)
	return translate(err, "delete seats")
}
