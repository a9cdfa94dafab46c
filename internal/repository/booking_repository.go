package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// BookingRepo reads and writes the bookings table.
type BookingRepo struct{ q querier }

const bookingColumns = `id, user_id, flight_id, business_tickets, economy_tickets, total_amount,
	status, cancellation_deadline, booking_date`

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.BusinessTickets, &b.EconomyTickets, &b.TotalAmount,
		&b.Status, &b.CancellationDeadline, &b.BookingDate)
}

// CreateBooking inserts b and sets its ID.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, flight_id, business_tickets, economy_tickets, total_amount,
	               status, cancellation_deadline, booking_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, b.UserID, b.FlightID, b.BusinessTickets, b.EconomyTickets, b.TotalAmount,
		b.Status, b.CancellationDeadline, b.BookingDate)
	if err != nil {
		return translate(err, "insert booking")
	}
	b.ID, err = lastID(res)
	return err
}

func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := scanBooking(r.q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id), &b)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("booking %d", id))
	}
	return &b, nil
}

// ListBookingsByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListBookingsByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY booking_date DESC, id DESC`, userID)
}

// ListBookingsByFlight returns every booking on a flight ordered by id,
// whatever its status.
func (r *BookingRepo) ListBookingsByFlight(ctx context.Context, flightID uint64) ([]model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE flight_id = ? ORDER BY id`, flightID)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err, "list bookings")
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateBooking writes the status and deadline of b; ticket counts and
// amounts are immutable.
func (r *BookingRepo) UpdateBooking(ctx context.Context, b *model.Booking) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE bookings SET status = ?, cancellation_deadline = ? WHERE id = ?`,
		b.Status, b.CancellationDeadline, b.ID)
	if err != nil {
		return translate(err, fmt.Sprintf("update booking %d", b.ID))
	}
	return mustAffect(res, fmt.Sprintf("booking %d", b.ID))
}

// DelayBookings marks every non-cancelled booking on a flight as
// delayed with a new deadline and reports how many rows moved.
func (r *BookingRepo) DelayBookings(ctx context.Context, flightID uint64, deadline time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE bookings SET status = ?, cancellation_deadline = ? WHERE flight_id = ? AND status <> ?`,
		model.BookingDelayed, deadline, flightID, model.BookingCancelled)
	if err != nil {
		return 0, translate(err, "delay bookings")
	}
	return res.RowsAffected()
}

func (r *BookingRepo) DeleteBookingsByFlight(ctx context.Context, flightID uint64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM bookings WHERE flight_id = ?`, flightID)
	return translate(err, "delete bookings")
}
