// Package memstore is an in-memory implementation of inventory.Store.
// Entities live in maps keyed by id with explicit reference fields.
// A unit of work writes the live maps in place and keeps an undo log
// that is replayed backwards when it fails, so its cost follows the
// rows it touches rather than the size of the store.
package memstore

import (
	"context"
	"sync"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/model"
)

// Store holds the arena behind a read/write mutex.  Units of work are
// serialized; views run concurrently with each other.
type Store struct {
	mu sync.RWMutex
	st *arena
}

var _ inventory.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{st: newArena()}
}

// View runs fn against the current arena.  fn must not mutate.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, tx inventory.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, s.st)
}

// WithinTx runs fn as one unit of work.  Units of work are serialized
// and views never observe one half done; when fn fails or panics its
// writes are undone.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx inventory.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.begin()
	committed := false
	defer func() {
		if !committed {
			s.st.rollback()
		}
	}()
	if err := fn(ctx, s.st); err != nil {
		return err
	}
	s.st.commit()
	committed = true
	return nil
}

type sequences struct {
	aircraft, airport, flight, seat, booking, ticket, user, token uint64
}

type arena struct {
	seq      sequences
	aircraft map[uint64]model.Aircraft
	airports map[uint64]model.Airport
	flights  map[uint64]model.Flight
	seats    map[uint64]model.Seat
	bookings map[uint64]model.Booking
	tickets  map[uint64]model.Ticket
	users    map[uint64]model.User
	tokens   map[string]model.RefreshToken

	inTx     bool
	savedSeq sequences
	undo     []func()
}

func newArena() *arena {
	return &arena{
		aircraft: make(map[uint64]model.Aircraft),
		airports: make(map[uint64]model.Airport),
		flights:  make(map[uint64]model.Flight),
		seats:    make(map[uint64]model.Seat),
		bookings: make(map[uint64]model.Booking),
		tickets:  make(map[uint64]model.Ticket),
		users:    make(map[uint64]model.User),
		tokens:   make(map[string]model.RefreshToken),
	}
}

func (a *arena) begin() {
	a.inTx = true
	a.savedSeq = a.seq
	a.undo = a.undo[:0]
}

func (a *arena) commit() {
	a.inTx = false
	clear(a.undo)
	a.undo = a.undo[:0]
}

func (a *arena) rollback() {
	for i := len(a.undo) - 1; i >= 0; i-- {
		a.undo[i]()
	}
	a.seq = a.savedSeq
	a.commit()
}

// record remembers the current state of m[k] for rollback.
func record[K comparable, V any](a *arena, m map[K]V, k K) {
	if !a.inTx {
		return
	}
	old, ok := m[k]
	a.undo = append(a.undo, func() {
		if ok {
			m[k] = old
		} else {
			delete(m, k)
		}
	})
}

func put[K comparable, V any](a *arena, m map[K]V, k K, v V) {
	record(a, m, k)
	m[k] = v
}

func drop[K comparable, V any](a *arena, m map[K]V, k K) {
	record(a, m, k)
	delete(m, k)
}

// AddAirport seeds a reference airport and returns it with its id.
func (s *Store) AddAirport(a model.Airport) model.Airport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.seq.airport++
	a.ID = s.st.seq.airport
	s.st.airports[a.ID] = a
	return a
}

// AddUser seeds a user and returns it with its id.
func (s *Store) AddUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.seq.user++
	u.ID = s.st.seq.user
	s.st.users[u.ID] = u
	return u
}
