package inventory

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// CreateBooking buys business and economy seats on a flight for a user.
// Seats are taken lowest id first, one ticket per seat at the flight's
// class price.  Either every requested seat is reserved or nothing
// changes and ErrConflict is returned.
func (s *Service) CreateBooking(ctx context.Context, userID, flightID uint64, business, economy int) (_ *model.Booking, _ []model.Ticket, err error) {
	ctx, span := s.startSpan(ctx, "inventory.CreateBooking",
		idAttr("user.id", userID), idAttr("flight.id", flightID),
		attribute.Int("tickets.business", business), attribute.Int("tickets.economy", economy))
	defer func() { endSpan(span, err) }()

	if business < 0 || economy < 0 {
		return nil, nil, fmt.Errorf("%w: ticket counts must not be negative", ErrValidation)
	}
	if business+economy == 0 {
		return nil, nil, fmt.Errorf("%w: at least one ticket is required", ErrValidation)
	}

	unlock := s.locks.lock(flightID)
	defer unlock()

	var (
		booking model.Booking
		tickets []model.Ticket
	)
	now := s.clock.Now()
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		f, err := tx.GetFlightForUpdate(ctx, flightID)
		if err != nil {
			return err
		}
		if !now.Before(f.ActualDeparture) {
			return fmt.Errorf("%w: flight %d has already departed", ErrValidation, flightID)
		}
		if f.AvailBusiness < business || f.AvailEconomy < economy {
			return fmt.Errorf("%w: flight %d has %d business and %d economy seats left",
				ErrConflict, flightID, f.AvailBusiness, f.AvailEconomy)
		}
		busSeats, err := pickSeats(ctx, tx, flightID, model.ClassBusiness, business)
		if err != nil {
			return err
		}
		ecoSeats, err := pickSeats(ctx, tx, flightID, model.ClassEconomy, economy)
		if err != nil {
			return err
		}

		booking = model.Booking{
			UserID:               userID,
			FlightID:             flightID,
			BusinessTickets:      business,
			EconomyTickets:       economy,
			TotalAmount:          int64(business)*f.BusinessPrice + int64(economy)*f.EconomyPrice,
			Status:               model.BookingActive,
			CancellationDeadline: cancellationDeadline(f.ActualDeparture),
			BookingDate:          now,
		}
		if err := tx.CreateBooking(ctx, &booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		seatIDs := make([]uint64, 0, business+economy)
		tickets = make([]model.Ticket, 0, business+economy)
		for _, st := range busSeats {
			seatIDs = append(seatIDs, st.ID)
			tickets = append(tickets, model.Ticket{BookingID: booking.ID, SeatID: st.ID, Price: f.BusinessPrice})
		}
		for _, st := range ecoSeats {
			seatIDs = append(seatIDs, st.ID)
			tickets = append(tickets, model.Ticket{BookingID: booking.ID, SeatID: st.ID, Price: f.EconomyPrice})
		}
		if err := tx.SetSeatsAvailable(ctx, seatIDs, false); err != nil {
			return fmt.Errorf("hold seats: %w", err)
		}
		if err := tx.CreateTickets(ctx, tickets); err != nil {
			return fmt.Errorf("create tickets: %w", err)
		}

		f.AvailBusiness -= business
		f.AvailEconomy -= economy
		f.Revenue += booking.TotalAmount
		return tx.UpdateFlight(ctx, f)
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("booking created",
		zap.Uint64("booking_id", booking.ID),
		zap.Uint64("user_id", userID),
		zap.Uint64("flight_id", flightID),
		zap.Int64("total", booking.TotalAmount))
	return &booking, tickets, nil
}

// CancelBooking reverses a booking before its deadline: the booking
// becomes Cancelled, its seats are freed and its tickets deleted, and
// the flight's counters and revenue are restored, all in one unit of
// work.
func (s *Service) CancelBooking(ctx context.Context, userID, bookingID uint64) (_ *model.Booking, err error) {
	ctx, span := s.startSpan(ctx, "inventory.CancelBooking", idAttr("user.id", userID), idAttr("booking.id", bookingID))
	defer func() { endSpan(span, err) }()

	var flightID uint64
	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		b, err := userBooking(ctx, tx, userID, bookingID)
		if err != nil {
			return err
		}
		flightID = b.FlightID
		return nil
	})
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(flightID)
	defer unlock()

	var cancelled model.Booking
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		f, err := tx.GetFlightForUpdate(ctx, flightID)
		if err != nil {
			return err
		}
		b, err := userBooking(ctx, tx, userID, bookingID)
		if err != nil {
			return err
		}
		if b.Status == model.BookingCancelled {
			return fmt.Errorf("%w: booking %d is already cancelled", ErrConflict, bookingID)
		}
		if s.clock.Now().After(b.CancellationDeadline) {
			return fmt.Errorf("booking %d: %w", bookingID, ErrDeadlineExpired)
		}

		tickets, err := tx.ListTicketsByBookings(ctx, []uint64{b.ID})
		if err != nil {
			return fmt.Errorf("list tickets: %w", err)
		}
		seatIDs := make([]uint64, len(tickets))
		for i, t := range tickets {
			seatIDs[i] = t.SeatID
		}
		if err := tx.SetSeatsAvailable(ctx, seatIDs, true); err != nil {
			return fmt.Errorf("release seats: %w", err)
		}
		if err := tx.DeleteTicketsByBookings(ctx, []uint64{b.ID}); err != nil {
			return fmt.Errorf("delete tickets: %w", err)
		}

		b.Status = model.BookingCancelled
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		f.Revenue -= b.TotalAmount
		f.AvailBusiness += b.BusinessTickets
		f.AvailEconomy += b.EconomyTickets
		if err := tx.UpdateFlight(ctx, f); err != nil {
			return fmt.Errorf("update flight: %w", err)
		}
		cancelled = *b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("booking cancelled",
		zap.Uint64("booking_id", bookingID),
		zap.Uint64("user_id", userID),
		zap.Uint64("flight_id", flightID))
	return &cancelled, nil
}

// pickSeats returns exactly n available seats of class, lowest ids first.
func pickSeats(ctx context.Context, tx Tx, flightID uint64, class model.SeatClass, n int) ([]model.Seat, error) {
	if n == 0 {
		return nil, nil
	}
	seats, err := tx.ListAvailableSeats(ctx, flightID, class, n)
	if err != nil {
		return nil, fmt.Errorf("list available %s seats: %w", class, err)
	}
	if len(seats) < n {
		return nil, fmt.Errorf("%w: flight %d has only %d %s seat rows free", ErrConflict, flightID, len(seats), class)
	}
	return seats, nil
}

// userBooking loads a booking and checks that it belongs to userID.
func userBooking(ctx context.Context, tx Tx, userID, bookingID uint64) (*model.Booking, error) {
	b, err := tx.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	return b, nil
}

// BookingWithFlight pairs a booking with the flight it is for.  Flight
// is nil when the flight row could not be loaded.
type BookingWithFlight struct {
	Booking model.Booking `json:"booking"`
	Flight  *model.Flight `json:"flight"`
}

// MyBookings lists a user's bookings, newest first, each with its flight.
func (s *Service) MyBookings(ctx context.Context, userID uint64) (out []BookingWithFlight, err error) {
	ctx, span := s.startSpan(ctx, "inventory.MyBookings", idAttr("user.id", userID))
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		bookings, err := tx.ListBookingsByUser(ctx, userID)
		if err != nil {
			return err
		}
		flights := make(map[uint64]*model.Flight)
		out = make([]BookingWithFlight, 0, len(bookings))
		for _, b := range bookings {
			f, ok := flights[b.FlightID]
			if !ok {
				f, _ = tx.GetFlight(ctx, b.FlightID)
				flights[b.FlightID] = f
			}
			out = append(out, BookingWithFlight{Booking: b, Flight: f})
		}
		return nil
	})
	return out, err
}

// GetBooking returns one of the user's bookings.
func (s *Service) GetBooking(ctx context.Context, userID, bookingID uint64) (b *model.Booking, err error) {
	ctx, span := s.startSpan(ctx, "inventory.GetBooking", idAttr("user.id", userID), idAttr("booking.id", bookingID))
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		b, err = userBooking(ctx, tx, userID, bookingID)
		return err
	})
	return b, err
}

// BookingTickets returns the tickets of one of the user's bookings.
func (s *Service) BookingTickets(ctx context.Context, userID, bookingID uint64) (tickets []model.Ticket, err error) {
	ctx, span := s.startSpan(ctx, "inventory.BookingTickets", idAttr("user.id", userID), idAttr("booking.id", bookingID))
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := userBooking(ctx, tx, userID, bookingID); err != nil {
			return err
		}
		tickets, err = tx.ListTicketsByBookings(ctx, []uint64{bookingID})
		return err
	})
	return tickets, err
}

// FlightTicketSummary is the owner's view of what has been sold on a flight.
type FlightTicketSummary struct {
	BusinessTickets int            `json:"nums_busi"`
	EconomyTickets  int            `json:"nums_eco"`
	Tickets         []model.Ticket `json:"tickets"`
}

// FlightTickets totals the tickets of non-cancelled bookings on a flight
// flown by one of owner's aircraft and lists them, most expensive first.
func (s *Service) FlightTickets(ctx context.Context, ownerID, flightID uint64) (sum *FlightTicketSummary, err error) {
	ctx, span := s.startSpan(ctx, "inventory.FlightTickets", idAttr("owner.id", ownerID), idAttr("flight.id", flightID))
	defer func() { endSpan(span, err) }()

	err = s.store.View(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := ownedFlight(ctx, tx, ownerID, flightID); err != nil {
			return err
		}
		bookings, err := tx.ListBookingsByFlight(ctx, flightID)
		if err != nil {
			return err
		}
		out := &FlightTicketSummary{Tickets: []model.Ticket{}}
		ids := make([]uint64, 0, len(bookings))
		for _, b := range bookings {
			if b.Status == model.BookingCancelled {
				continue
			}
			out.BusinessTickets += b.BusinessTickets
			out.EconomyTickets += b.EconomyTickets
			ids = append(ids, b.ID)
		}
		if len(ids) > 0 {
			tickets, err := tx.ListTicketsByBookings(ctx, ids)
			if err != nil {
				return err
			}
			sort.SliceStable(tickets, func(i, j int) bool { return tickets[i].Price > tickets[j].Price })
			out.Tickets = tickets
		}
		sum = out
		return nil
	})
	return sum, err
}
