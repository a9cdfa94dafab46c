package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/model"
)

var _ inventory.Tx = (*arena)(nil)

func notFound(kind string, id uint64) error {
	return fmt.Errorf("%s %d: %w", kind, id, inventory.ErrNotFound)
}

func idSet(ids []uint64) map[uint64]bool {
	set := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ---- aircraft ----

func (a *arena) CreateAircraft(_ context.Context, ac *model.Aircraft) error {
	for _, other := range a.aircraft {
		if other.Code == ac.Code {
			return fmt.Errorf("%w: aircraft code %q already exists", inventory.ErrConflict, ac.Code)
		}
	}
	a.seq.aircraft++
	ac.ID = a.seq.aircraft
	put(a, a.aircraft, ac.ID, *ac)
	return nil
}

func (a *arena) GetAircraft(_ context.Context, id uint64) (*model.Aircraft, error) {
	ac, ok := a.aircraft[id]
	if !ok {
		return nil, notFound("aircraft", id)
	}
	return &ac, nil
}

func (a *arena) FindAircraftByCode(_ context.Context, code string) (*model.Aircraft, error) {
	for _, ac := range a.aircraft {
		if ac.Code == code {
			return &ac, nil
		}
	}
	return nil, fmt.Errorf("aircraft code %q: %w", code, inventory.ErrNotFound)
}

func (a *arena) ListAircraftByOwner(_ context.Context, ownerID uint64) ([]model.Aircraft, error) {
	out := []model.Aircraft{}
	for _, ac := range a.aircraft {
		if ac.OwnerID == ownerID {
			out = append(out, ac)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (a *arena) UpdateAircraft(_ context.Context, ac *model.Aircraft) error {
	if _, ok := a.aircraft[ac.ID]; !ok {
		return notFound("aircraft", ac.ID)
	}
	for _, other := range a.aircraft {
		if other.ID != ac.ID && other.Code == ac.Code {
			return fmt.Errorf("%w: aircraft code %q already exists", inventory.ErrConflict, ac.Code)
		}
	}
	put(a, a.aircraft, ac.ID, *ac)
	return nil
}

func (a *arena) DeleteAircraft(_ context.Context, id uint64) error {
	if _, ok := a.aircraft[id]; !ok {
		return notFound("aircraft", id)
	}
	drop(a, a.aircraft, id)
	return nil
}

// ---- airports ----

func (a *arena) GetAirport(_ context.Context, id uint64) (*model.Airport, error) {
	ap, ok := a.airports[id]
	if !ok {
		return nil, notFound("airport", id)
	}
	return &ap, nil
}

func (a *arena) ListAirports(_ context.Context) ([]model.Airport, error) {
	out := make([]model.Airport, 0, len(a.airports))
	for _, ap := range a.airports {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- flights ----

func (a *arena) CreateFlight(_ context.Context, f *model.Flight) error {
	if _, ok := a.aircraft[f.AircraftID]; !ok {
		return notFound("aircraft", f.AircraftID)
	}
	a.seq.flight++
	f.ID = a.seq.flight
	put(a, a.flights, f.ID, *f)
	return nil
}

func (a *arena) GetFlight(_ context.Context, id uint64) (*model.Flight, error) {
	f, ok := a.flights[id]
	if !ok {
		return nil, notFound("flight", id)
	}
	return &f, nil
}

// GetFlightForUpdate needs no row lock: units of work are serialized.
func (a *arena) GetFlightForUpdate(ctx context.Context, id uint64) (*model.Flight, error) {
	return a.GetFlight(ctx, id)
}

func (a *arena) ListFlightsByAircraft(_ context.Context, aircraftID uint64) ([]model.Flight, error) {
	out := []model.Flight{}
	for _, f := range a.flights {
		if f.AircraftID == aircraftID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (a *arena) UpdateFlight(_ context.Context, f *model.Flight) error {
	if _, ok := a.flights[f.ID]; !ok {
		return notFound("flight", f.ID)
	}
	put(a, a.flights, f.ID, *f)
	return nil
}

func (a *arena) DeleteFlight(_ context.Context, id uint64) error {
	if _, ok := a.flights[id]; !ok {
		return notFound("flight", id)
	}
	drop(a, a.flights, id)
	return nil
}

func (a *arena) ListFlightStats(_ context.Context, year int, ownerID uint64) ([]model.FlightStat, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	var out []model.FlightStat
	for _, f := range a.flights {
		dep := f.ActualDeparture.UTC()
		if dep.Before(from) || !dep.Before(to) {
			continue
		}
		ac, ok := a.aircraft[f.AircraftID]
		if !ok || (ownerID != 0 && ac.OwnerID != ownerID) {
			continue
		}
		out = append(out, model.FlightStat{
			FlightID:        f.ID,
			OwnerID:         ac.OwnerID,
			DestAirportCode: a.airports[f.DestAirportID].Code,
			ActualDeparture: dep,
			Revenue:         f.Revenue,
			TotalSeats:      ac.TotalSeats,
			AvailBusiness:   f.AvailBusiness,
			AvailEconomy:    f.AvailEconomy,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlightID < out[j].FlightID })
	return out, nil
}

// ---- seats ----

func (a *arena) CreateSeats(_ context.Context, seats []model.Seat) error {
	for i := range seats {
		if _, ok := a.flights[seats[i].FlightID]; !ok {
			return notFound("flight", seats[i].FlightID)
		}
		a.seq.seat++
		seats[i].ID = a.seq.seat
		put(a, a.seats, seats[i].ID, seats[i])
	}
	return nil
}

func (a *arena) GetSeat(_ context.Context, id uint64) (*model.Seat, error) {
	st, ok := a.seats[id]
	if !ok {
		return nil, notFound("seat", id)
	}
	return &st, nil
}

func (a *arena) ListSeats(_ context.Context, flightID uint64) ([]model.Seat, error) {
	out := []model.Seat{}
	for _, st := range a.seats {
		if st.FlightID == flightID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (a *arena) ListAvailableSeats(ctx context.Context, flightID uint64, class model.SeatClass, limit int) ([]model.Seat, error) {
	if limit <= 0 {
		return nil, nil
	}
	all, _ := a.ListSeats(ctx, flightID)
	out := make([]model.Seat, 0, limit)
	for _, st := range all {
		if st.Class == class && st.Available {
			out = append(out, st)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (a *arena) SetSeatsAvailable(_ context.Context, ids []uint64, available bool) error {
	for _, id := range ids {
		st, ok := a.seats[id]
		if !ok {
			return notFound("seat", id)
		}
		st.Available = available
		put(a, a.seats, id, st)
	}
	return nil
}

func (a *arena) DeleteSeats(_ context.Context, ids []uint64) error {
	for _, id := range ids {
		drop(a, a.seats, id)
	}
	return nil
}

func (a *arena) DeleteSeatsByFlight(_ context.Context, flightID uint64) error {
	for id, st := range a.seats {
		if st.FlightID == flightID {
			drop(a, a.seats, id)
		}
	}
	return nil
}

// ---- bookings ----

func (a *arena) CreateBooking(_ context.Context, b *model.Booking) error {
	if _, ok := a.flights[b.FlightID]; !ok {
		return notFound("flight", b.FlightID)
	}
	a.seq.booking++
	b.ID = a.seq.booking
	put(a, a.bookings, b.ID, *b)
	return nil
}

func (a *arena) GetBooking(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := a.bookings[id]
	if !ok {
		return nil, notFound("booking", id)
	}
	return &b, nil
}

func (a *arena) ListBookingsByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range a.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.After(out[j].BookingDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (a *arena) ListBookingsByFlight(_ context.Context, flightID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range a.bookings {
		if b.FlightID == flightID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (a *arena) UpdateBooking(_ context.Context, b *model.Booking) error {
	if _, ok := a.bookings[b.ID]; !ok {
		return notFound("booking", b.ID)
	}
	put(a, a.bookings, b.ID, *b)
	return nil
}

func (a *arena) DelayBookings(_ context.Context, flightID uint64, deadline time.Time) (int64, error) {
	var n int64
	for id, b := range a.bookings {
		if b.FlightID != flightID || b.Status == model.BookingCancelled {
			continue
		}
		b.Status = model.BookingDelayed
		b.CancellationDeadline = deadline
		put(a, a.bookings, id, b)
		n++
	}
	return n, nil
}

func (a *arena) DeleteBookingsByFlight(_ context.Context, flightID uint64) error {
	for id, b := range a.bookings {
		if b.FlightID == flightID {
			drop(a, a.bookings, id)
		}
	}
	return nil
}

// ---- tickets ----

func (a *arena) CreateTickets(_ context.Context, tickets []model.Ticket) error {
	for i := range tickets {
		if _, ok := a.bookings[tickets[i].BookingID]; !ok {
			return notFound("booking", tickets[i].BookingID)
		}
		if _, ok := a.seats[tickets[i].SeatID]; !ok {
			return notFound("seat", tickets[i].SeatID)
		}
		a.seq.ticket++
		tickets[i].ID = a.seq.ticket
		put(a, a.tickets, tickets[i].ID, tickets[i])
	}
	return nil
}

func (a *arena) GetTicket(_ context.Context, id uint64) (*model.Ticket, error) {
	t, ok := a.tickets[id]
	if !ok {
		return nil, notFound("ticket", id)
	}
	return &t, nil
}

func (a *arena) ListTicketsByBookings(_ context.Context, bookingIDs []uint64) ([]model.Ticket, error) {
	want := idSet(bookingIDs)
	out := []model.Ticket{}
	for _, t := range a.tickets {
		if want[t.BookingID] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (a *arena) DeleteTicketsByBookings(_ context.Context, bookingIDs []uint64) error {
	want := idSet(bookingIDs)
	for id, t := range a.tickets {
		if want[t.BookingID] {
			drop(a, a.tickets, id)
		}
	}
	return nil
}

// ---- users ----

func (a *arena) GetUser(_ context.Context, id uint64) (*model.User, error) {
	u, ok := a.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (a *arena) ListUsers(_ context.Context, ids []uint64) ([]model.User, error) {
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := a.users[id]; ok {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(x, y model.User) int {
		switch {
		case x.ID < y.ID:
			return -1
		case x.ID > y.ID:
			return 1
		}
		return 0
	})
	return slices.CompactFunc(out, func(x, y model.User) bool { return x.ID == y.ID }), nil
}

func (a *arena) IncrementBookingsChanged(_ context.Context, ids []uint64) error {
	for id := range idSet(ids) {
		if u, ok := a.users[id]; ok {
			u.BookingsChanged++
			put(a, a.users, id, u)
		}
	}
	return nil
}
