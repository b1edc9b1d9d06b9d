package mocks

import (
	"context"
	"sync"

	"posimarket/domain/notification"
)

// RecordingDispatcher keeps every notification it is handed
type RecordingDispatcher struct {
	mu   sync.Mutex
	sent []notification.Notification
	Err  error // returned from Notify when set
}

func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{}
}

func (d *RecordingDispatcher) Notify(ctx context.Context, n notification.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.sent = append(d.sent, n)
	return nil
}

// Sent copy of delivered notifications
func (d *RecordingDispatcher) Sent() []notification.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notification.Notification(nil), d.sent...)
}

// SentTo notifications addressed to one user
func (d *RecordingDispatcher) SentTo(userID string) []notification.Notification {
	var out []notification.Notification
	for _, n := range d.Sent() {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

var _ notification.Dispatcher = (*RecordingDispatcher)(nil)
