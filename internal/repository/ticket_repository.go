package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// TicketRepo reads and writes the tickets table.
type TicketRepo struct{ q querier }

// CreateTickets inserts tickets in one statement and fills in their IDs.
func (r *TicketRepo) CreateTickets(ctx context.Context, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`INSERT INTO tickets (booking_id, seat_id, price) VALUES `)
	args := make([]any, 0, len(tickets)*3)
	for i, t := range tickets {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("(?, ?, ?)")
		args = append(args, t.BookingID, t.SeatID, t.Price)
	}
	res, err := r.q.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return translate(err, "insert tickets")
	}
	first, err := lastID(res)
	if err != nil {
		return err
	}
	for i := range tickets {
		tickets[i].ID = first + uint64(i)
	}
	return nil
}

func (r *TicketRepo) GetTicket(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	err := r.q.QueryRowContext(ctx, `SELECT id, booking_id, seat_id, price FROM tickets WHERE id = ?`, id).
		Scan(&t.ID, &t.BookingID, &t.SeatID, &t.Price)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("ticket %d", id))
	}
	return &t, nil
}

// ListTicketsByBookings returns the tickets of the given bookings ordered by id.
func (r *TicketRepo) ListTicketsByBookings(ctx context.Context, bookingIDs []uint64) ([]model.Ticket, error) {
	if len(bookingIDs) == 0 {
		return []model.Ticket{}, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, booking_id, seat_id, price FROM tickets WHERE booking_id IN (`+placeholders(len(bookingIDs))+`) ORDER BY id`,
		idArgs(bookingIDs)...)
	if err != nil {
		return nil, translate(err, "list tickets")
	}
	defer rows.Close()

	out := []model.Ticket{}
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.BookingID, &t.SeatID, &t.Price); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TicketRepo) DeleteTicketsByBookings(ctx context.Context, bookingIDs []uint64) error {
	if len(bookingIDs) == 0 {
		return nil
	}
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM tickets WHERE booking_id IN (`+placeholders(len(bookingIDs))+`)`, idArgs(bookingIDs)...)
	return translate(err, "delete tickets")
}
