package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/memstore"
	"github.com/iliyamo/flight-inventory/internal/model"
)

var t0 = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type sentMessage struct {
	Recipients []string
	Subject    string
	Body       string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, recipients []string, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{Recipients: recipients, Subject: subject, Body: body})
	return n.err
}

func (n *recordingNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

type fixture struct {
	ctx      context.Context
	store    *memstore.Store
	svc      *inventory.Service
	clock    *fakeClock
	notes    *recordingNotifier
	owner    model.User
	alice    model.User
	bob      model.User
	han, sgn model.Airport
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	f := &fixture{
		ctx:   context.Background(),
		store: st,
		clock: &fakeClock{now: t0},
		notes: &recordingNotifier{},
	}
	f.owner = st.AddUser(model.User{Email: "owner@airline.test", Role: model.RoleOwner})
	f.alice = st.AddUser(model.User{Email: "alice@example.com", Role: model.RoleCustomer})
	f.bob = st.AddUser(model.User{Email: "bob@example.com", Role: model.RoleCustomer})
	f.han = st.AddAirport(model.Airport{Code: "HAN", Name: "Noi Bai International Airport", City: "Hanoi"})
	f.sgn = st.AddAirport(model.Airport{Code: "SGN", Name: "Tan Son Nhat International Airport", City: "Ho Chi Minh City"})
	f.svc = inventory.New(st,
		inventory.WithClock(f.clock),
		inventory.WithNotifier(f.notes),
		inventory.WithNotifyTimeout(time.Second),
	)
	return f
}

func (f *fixture) addAircraft(t *testing.T, code string, seats int) *model.Aircraft {
	t.Helper()
	a, err := f.svc.AddAircraft(f.ctx, f.owner.ID, inventory.AircraftInput{Code: code, Model: "A321", TotalSeats: seats})
	require.NoError(t, err)
	return a
}

// addFlight schedules a SGN→HAN flight with a quarter of the seats in business.
func (f *fixture) addFlight(t *testing.T, a *model.Aircraft, dep time.Time) *model.Flight {
	t.Helper()
	business := a.TotalSeats / 4
	return f.addFlightWith(t, a, f.sgn.ID, f.han.ID, dep, business, a.TotalSeats-business)
}

func (f *fixture) addFlightWith(t *testing.T, a *model.Aircraft, from, to uint64, dep time.Time, business, economy int) *model.Flight {
	t.Helper()
	fl, err := f.svc.AddFlight(f.ctx, f.owner.ID, a.ID, inventory.FlightInput{
		OriginAirportID:    from,
		DestAirportID:      to,
		ScheduledDeparture: dep,
		ScheduledArrival:   dep.Add(2 * time.Hour),
		BusinessSeats:      business,
		EconomySeats:       economy,
		BusinessPrice:      400,
		EconomyPrice:       100,
	})
	require.NoError(t, err)
	return fl
}

func (f *fixture) flight(t *testing.T, id uint64) model.Flight {
	t.Helper()
	var out model.Flight
	require.NoError(t, f.store.View(f.ctx, func(ctx context.Context, tx inventory.Tx) error {
		fl, err := tx.GetFlight(ctx, id)
		if err != nil {
			return err
		}
		out = *fl
		return nil
	}))
	return out
}

func (f *fixture) seats(t *testing.T, flightID uint64) []model.Seat {
	t.Helper()
	var out []model.Seat
	require.NoError(t, f.store.View(f.ctx, func(ctx context.Context, tx inventory.Tx) error {
		var err error
		out, err = tx.ListSeats(ctx, flightID)
		return err
	}))
	return out
}

func (f *fixture) user(t *testing.T, id uint64) model.User {
	t.Helper()
	var out model.User
	require.NoError(t, f.store.View(f.ctx, func(ctx context.Context, tx inventory.Tx) error {
		u, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		out = *u
		return nil
	}))
	return out
}

func (f *fixture) setCounters(t *testing.T, flightID uint64, business, economy int, revenue int64) {
	t.Helper()
	require.NoError(t, f.store.WithinTx(f.ctx, func(ctx context.Context, tx inventory.Tx) error {
		fl, err := tx.GetFlight(ctx, flightID)
		if err != nil {
			return err
		}
		fl.AvailBusiness, fl.AvailEconomy, fl.Revenue = business, economy, revenue
		return tx.UpdateFlight(ctx, fl)
	}))
}

type tally struct {
	all, availBusiness, availEconomy int
}

func tallySeats(seats []model.Seat) tally {
	var c tally
	for _, s := range seats {
		c.all++
		if !s.Available {
			continue
		}
		if s.Class == model.ClassBusiness {
			c.availBusiness++
		} else {
			c.availEconomy++
		}
	}
	return c
}

// requireSeatInvariant checks that the counters mirror the seat rows.
func (f *fixture) requireSeatInvariant(t *testing.T, flightID uint64) {
	t.Helper()
	fl := f.flight(t, flightID)
	c := tallySeats(f.seats(t, flightID))
	require.Equal(t, c.availBusiness, fl.AvailBusiness, "business counter")
	require.Equal(t, c.availEconomy, fl.AvailEconomy, "economy counter")
}
