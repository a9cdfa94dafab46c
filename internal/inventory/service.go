// Package inventory keeps an airline's seat inventory consistent: the
// seat pool of each flight, capacity reallocation when an aircraft's
// seat count changes, schedule changes cascading to bookings, the
// booking ledger, and the revenue and popularity reports.
package inventory

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/iliyamo/flight-inventory/internal/inventory"

// Service is the entry point of the inventory core.  It is safe for
// concurrent use.
type Service struct {
	store         Store
	notifier      Notifier
	clock         Clock
	log           *zap.Logger
	tracer        trace.Tracer
	locks         *keyedLocks // per flight
	fleetLocks    *keyedLocks // per aircraft
	notifyTimeout time.Duration
	pending       sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the notification sink used for schedule changes and
// cancelled flights.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

// WithClock overrides the clock used for deadlines.
func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// WithNotifyTimeout bounds a single notification dispatch.
func WithNotifyTimeout(d time.Duration) Option { return func(s *Service) { s.notifyTimeout = d } }

// New builds a Service over store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:         store,
		notifier:      discardNotifier{},
		clock:         SystemClock,
		log:           zap.NewNop(),
		tracer:        otel.Tracer(tracerName),
		locks:         newKeyedLocks(),
		fleetLocks:    newKeyedLocks(),
		notifyTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WaitNotifications blocks until every notification dispatched so far
// has finished.  Used on shutdown.
func (s *Service) WaitNotifications() { s.pending.Wait() }

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func idAttr(key string, id uint64) attribute.KeyValue {
	return attribute.Int64(key, int64(id))
}
