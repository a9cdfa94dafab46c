package model

// Ticket binds one seat to a booking at the price paid for it.
//
// Fields:
//
//	ID        – primary key identifier.
//	BookingID – owning booking.
//	SeatID    – seat held by the ticket.
//	Price     – price paid, minor units.
type Ticket struct {
	ID        uint64 `json:"id"`         // tickets.id
	BookingID uint64 `json:"booking_id"` // tickets.booking_id
	SeatID    uint64 `json:"seat_id"`    // tickets.seat_id
	Price     int64  `json:"price"`      // tickets.price
}
