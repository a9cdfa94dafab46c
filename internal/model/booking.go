package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingActive    BookingStatus = "Active"
	BookingDelayed   BookingStatus = "Delayed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Booking records a customer's purchase of seats on one flight.
// Ticket counts never change after creation; only the status and
// the cancellation deadline move.
//
// Fields:
//
//	ID                   – primary key identifier.
//	UserID               – customer who booked.
//	FlightID             – booked flight.
//	BusinessTickets      – number of business seats bought.
//	EconomyTickets       – number of economy seats bought.
//	TotalAmount          – amount paid, minor units.
//	Status               – Active, Delayed or Cancelled.
//	CancellationDeadline – last instant a cancellation is accepted.
//	BookingDate          – creation timestamp.
type Booking struct {
	ID                   uint64        `json:"id"`                    // bookings.id
	UserID               uint64        `json:"user_id"`               // bookings.user_id
	FlightID             uint64        `json:"flight_id"`             // bookings.flight_id
	BusinessTickets      int           `json:"business_tickets"`      // bookings.business_tickets
	EconomyTickets       int           `json:"economy_tickets"`       // bookings.economy_tickets
	TotalAmount          int64         `json:"total_amount"`          // bookings.total_amount
	Status               BookingStatus `json:"status"`                // bookings.status
	CancellationDeadline time.Time     `json:"cancellation_deadline"` // bookings.cancellation_deadline
	BookingDate          time.Time     `json:"booking_date"`          // bookings.booking_date
}
