package model

// SeatClass tags a seat as business or economy.
type SeatClass string

const (
	ClassBusiness SeatClass = "Business"
	ClassEconomy  SeatClass = "Economy"
)

// Seat is a single seat on a flight.  Seat rows are the source of
// truth for availability; the flight counters mirror them.
//
// Fields:
//
//	ID         – primary key identifier.
//	FlightID   – flight the seat belongs to.
//	SeatNumber – label, B<n> for business and E<n> for economy.
//	Class      – Business or Economy.
//	Available  – false while a live ticket holds the seat.
type Seat struct {
	ID         uint64    `json:"id"`          // seats.id
	FlightID   uint64    `json:"flight_id"`   // seats.flight_id
	SeatNumber string    `json:"seat_number"` // seats.seat_number
	Class      SeatClass `json:"class"`       // seats.class
	Available  bool      `json:"available"`   // seats.available
}
