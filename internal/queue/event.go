// Package queue carries inventory notifications over RabbitMQ: the
// message payload, the consumer that drains the queue, and the mailers
// that finally deliver each message.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// KindEmail is the only event kind produced today.
const KindEmail = "email"

// NotificationEvent is one message for a set of recipients.  ID is also
// used as the AMQP message id so duplicates can be spotted in logs.
type NotificationEvent struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Recipients []string  `json:"recipients"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewNotificationEvent stamps a fresh id and creation time.
func NewNotificationEvent(recipients []string, subject, body string) NotificationEvent {
	return NotificationEvent{
		ID:         uuid.New(),
		Kind:       KindEmail,
		Recipients: recipients,
		Subject:    subject,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
}

// DecodeNotificationEvent parses and checks a message body.
func DecodeNotificationEvent(body []byte) (NotificationEvent, error) {
	var ev NotificationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Kind != KindEmail {
		return ev, fmt.Errorf("unknown kind %q", ev.Kind)
	}
	if len(ev.Recipients) == 0 {
		return ev, fmt.Errorf("event %s has no recipients", ev.ID)
	}
	return ev, nil
}
