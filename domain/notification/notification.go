// Package notification user notifications raised by order and payment events
package notification

import (
	"context"
	"encoding/json"
	"fmt"
)

// Notification one message for one user
type Notification struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Link    string `json:"link,omitempty"`
}

// Dispatcher delivers notifications; callers do not wait on the user seeing them
type Dispatcher interface {
	Notify(ctx context.Context, n Notification) error
}

// Envelope notification fields shared by every event that addresses users
type Envelope struct {
	Recipients []string `json:"recipients"`
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Kind       string   `json:"kind"`
	Link       string   `json:"link"`
}

// ParseEnvelope reads the recipient block of an outbox payload.
// Events without recipients produce an empty envelope.
func ParseEnvelope(payload string) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return Envelope{}, fmt.Errorf("decode event payload: %w", err)
	}
	return env, nil
}

// Expand one notification per distinct recipient
func (e Envelope) Expand() []Notification {
	seen := make(map[string]bool, len(e.Recipients))
	out := make([]Notification, 0, len(e.Recipients))
	for _, id := range e.Recipients {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Notification{
			UserID:  id,
			Title:   e.Title,
			Message: e.Message,
			Kind:    e.Kind,
			Link:    e.Link,
		})
	}
	return out
}
