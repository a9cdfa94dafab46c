package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/flight-inventory/internal/model"
)

// Notifier delivers a message to a list of email addresses.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, recipients []string, subject, body string) error

func (f NotifierFunc) Send(ctx context.Context, recipients []string, subject, body string) error {
	return f(ctx, recipients, subject, body)
}

type discardNotifier struct{}

func (discardNotifier) Send(context.Context, []string, string, string) error { return nil }

// Message is a notification ready for delivery.
type Message struct {
	Recipients []string
	Subject    string
	Body       string
}

const (
	subjectScheduleChange = "Flight schedule change"
	subjectFlightCancel   = "Flight cancelled"

	notifyTimeLayout = "15:04 02/01/2006"
)

// dispatch runs build and delivers its message on a detached goroutine.
// The caller never waits on it and never sees its errors.
func (s *Service) dispatch(ctx context.Context, kind string, build func(ctx context.Context) (Message, error)) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		defer cancel()

		msg, err := build(ctx)
		if err != nil {
			s.log.Warn("notification skipped", zap.String("kind", kind), zap.Error(err))
			return
		}
		if len(msg.Recipients) == 0 {
			return
		}
		if err := s.notifier.Send(ctx, msg.Recipients, msg.Subject, msg.Body); err != nil {
			s.log.Warn("notification failed",
				zap.String("kind", kind),
				zap.Int("recipients", len(msg.Recipients)),
				zap.Error(err))
			return
		}
		s.log.Debug("notification sent", zap.String("kind", kind), zap.Int("recipients", len(msg.Recipients)))
	}()
}

// recipients loads the emails of users, skipping blanks and duplicates.
func recipients(ctx context.Context, tx Tx, userIDs []uint64) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	users, err := tx.ListUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	seen := make(map[string]bool, len(users))
	out := make([]string, 0, len(users))
	for _, u := range users {
		email := strings.TrimSpace(u.Email)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, email)
	}
	return out, nil
}

// airportLabel renders "City (Name)", or N/A when the airport is gone.
func airportLabel(ctx context.Context, tx Tx, id uint64) string {
	a, err := tx.GetAirport(ctx, id)
	if err != nil {
		return "N/A"
	}
	return fmt.Sprintf("%s (%s)", a.City, a.Name)
}

func formatNotifyTime(t time.Time) string {
	return t.UTC().Format(notifyTimeLayout) + " UTC"
}

func scheduleChangeBody(f model.Flight, from, to string) string {
	var b strings.Builder
	b.WriteString("Your flight has been rescheduled:\n\n")
	fmt.Fprintf(&b, "- Flight: %d\n", f.ID)
	fmt.Fprintf(&b, "- From: %s\n", from)
	fmt.Fprintf(&b, "- To: %s\n\n", to)
	fmt.Fprintf(&b, "- Previous departure: %s\n", formatNotifyTime(f.ScheduledDeparture))
	fmt.Fprintf(&b, "- New departure: %s\n\n", formatNotifyTime(f.ActualDeparture))
	fmt.Fprintf(&b, "- Previous arrival: %s\n", formatNotifyTime(f.ScheduledArrival))
	fmt.Fprintf(&b, "- New arrival: %s\n\n", formatNotifyTime(f.ActualArrival))
	b.WriteString("Please review your booking in your account or contact support for details.\n")
	return b.String()
}

func flightCancelledBody(f model.Flight, from, to string) string {
	var b strings.Builder
	b.WriteString("Your flight has been cancelled:\n\n")
	fmt.Fprintf(&b, "- Flight: %d\n", f.ID)
	fmt.Fprintf(&b, "- From: %s\n", from)
	fmt.Fprintf(&b, "- To: %s\n\n", to)
	b.WriteString("Please review your booking in your account or contact support for details.\n")
	return b.String()
}

// notifyScheduleChange tells the holders of the affected bookings about
// the new times of f.
func (s *Service) notifyScheduleChange(ctx context.Context, f model.Flight, userIDs []uint64) {
	if len(userIDs) == 0 {
		return
	}
	s.dispatch(ctx, "schedule_change", func(ctx context.Context) (Message, error) {
		var msg Message
		err := s.store.View(ctx, func(ctx context.Context, tx Tx) error {
			to, err := recipients(ctx, tx, userIDs)
			if err != nil {
				return err
			}
			msg = Message{
				Recipients: to,
				Subject:    subjectScheduleChange,
				Body:       scheduleChangeBody(f, airportLabel(ctx, tx, f.OriginAirportID), airportLabel(ctx, tx, f.DestAirportID)),
			}
			return nil
		})
		return msg, err
	})
}

// notifyFlightCancelled tells users their flight no longer exists.  The
// flight row is already deleted, so f is the last known copy.
func (s *Service) notifyFlightCancelled(ctx context.Context, f model.Flight, userIDs []uint64) {
	if len(userIDs) == 0 {
		return
	}
	s.dispatch(ctx, "flight_cancelled", func(ctx context.Context) (Message, error) {
		var msg Message
		err := s.store.View(ctx, func(ctx context.Context, tx Tx) error {
			to, err := recipients(ctx, tx, userIDs)
			if err != nil {
				return err
			}
			msg = Message{
				Recipients: to,
				Subject:    subjectFlightCancel,
				Body:       flightCancelledBody(f, airportLabel(ctx, tx, f.OriginAirportID), airportLabel(ctx, tx, f.DestAirportID)),
			}
			return nil
		})
		return msg, err
	})
}

// uniqueUserIDs returns the distinct user ids of bookings, in first-seen order.
func uniqueUserIDs(bookings []model.Booking) []uint64 {
	seen := make(map[uint64]bool, len(bookings))
	out := make([]uint64, 0, len(bookings))
	for _, b := range bookings {
		if seen[b.UserID] {
			continue
		}
		seen[b.UserID] = true
		out = append(out, b.UserID)
	}
	return out
}
