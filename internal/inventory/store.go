package inventory

import (
	"context"
	"time"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// Store is the persistence boundary of the inventory core.  View runs
// fn against a read-only snapshot; WithinTx runs fn as one unit of
// work that is committed only when fn returns nil.
type Store interface {
	View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx groups the per-entity operations available inside a unit of work.
// Lookups of missing rows return an error wrapping ErrNotFound.
type Tx interface {
	AircraftStore
	AirportStore
	FlightStore
	SeatStore
	BookingStore
	TicketStore
	UserStore
}

type AircraftStore interface {
	CreateAircraft(ctx context.Context, a *model.Aircraft) error
	GetAircraft(ctx context.Context, id uint64) (*model.Aircraft, error)
	FindAircraftByCode(ctx context.Context, code string) (*model.Aircraft, error)
	ListAircraftByOwner(ctx context.Context, ownerID uint64) ([]model.Aircraft, error)
	UpdateAircraft(ctx context.Context, a *model.Aircraft) error
	DeleteAircraft(ctx context.Context, id uint64) error
}

type AirportStore interface {
	GetAirport(ctx context.Context, id uint64) (*model.Airport, error)
	ListAirports(ctx context.Context) ([]model.Airport, error)
}

type FlightStore interface {
	CreateFlight(ctx context.Context, f *model.Flight) error
	GetFlight(ctx context.Context, id uint64) (*model.Flight, error)
	// GetFlightForUpdate loads the flight and holds a write lock on it
	// until the enclosing unit of work ends.
	GetFlightForUpdate(ctx context.Context, id uint64) (*model.Flight, error)
	ListFlightsByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error)
	UpdateFlight(ctx context.Context, f *model.Flight) error
	DeleteFlight(ctx context.Context, id uint64) error
	// ListFlightStats returns one row per flight whose actual departure
	// falls in year (UTC).  ownerID 0 means every owner.
	ListFlightStats(ctx context.Context, year int, ownerID uint64) ([]model.FlightStat, error)
}

type SeatStore interface {
	CreateSeats(ctx context.Context, seats []model.Seat) error
	GetSeat(ctx context.Context, id uint64) (*model.Seat, error)
	ListSeats(ctx context.Context, flightID uint64) ([]model.Seat, error)
	// ListAvailableSeats returns at most limit available seats of the
	// class, ordered by seat id.
	ListAvailableSeats(ctx context.Context, flightID uint64, class model.SeatClass, limit int) ([]model.Seat, error)
	SetSeatsAvailable(ctx context.Context, ids []uint64, available bool) error
	DeleteSeats(ctx context.Context, ids []uint64) error
	DeleteSeatsByFlight(ctx context.Context, flightID uint64) error
}

type BookingStore interface {
	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	// ListBookingsByUser orders by booking date, newest first.
	ListBookingsByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListBookingsByFlight(ctx context.Context, flightID uint64) ([]model.Booking, error)
	UpdateBooking(ctx context.Context, b *model.Booking) error
	// DelayBookings marks every non-cancelled booking of the flight as
	// delayed with the given deadline and returns how many changed.
	DelayBookings(ctx context.Context, flightID uint64, deadline time.Time) (int64, error)
	DeleteBookingsByFlight(ctx context.Context, flightID uint64) error
}

type TicketStore interface {
	CreateTickets(ctx context.Context, tickets []model.Ticket) error
	GetTicket(ctx context.Context, id uint64) (*model.Ticket, error)
	ListTicketsByBookings(ctx context.Context, bookingIDs []uint64) ([]model.Ticket, error)
	DeleteTicketsByBookings(ctx context.Context, bookingIDs []uint64) error
}

type UserStore interface {
	GetUser(ctx context.Context, id uint64) (*model.User, error)
	ListUsers(ctx context.Context, ids []uint64) ([]model.User, error)
	IncrementBookingsChanged(ctx context.Context, ids []uint64) error
}
