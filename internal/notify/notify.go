// Package notify publishes build events to NATS.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docpolish/internal/logfields"
)

// BuildEvent is the payload published after a completed build.
type BuildEvent struct {
	RunID      string    `json:"run_id"`
	Outcome    string    `json:"outcome"`
	Pages      int       `json:"pages"`
	Rewritten  int       `json:"rewritten"`
	Unchanged  int       `json:"unchanged"`
	DurationMS int64     `json:"duration_ms"`
	Commit     string    `json:"commit,omitempty"`
	Branch     string    `json:"branch,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notifier publishes build events.
type Notifier interface {
	PublishBuild(event *BuildEvent) error
	Close() error
}

// NATSNotifier publishes build events on a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url,
		nats.Name("docpolish"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Debug("notify client connected",
		logfields.URL(url),
		logfields.Subject(subject))

	return &NATSNotifier{conn: conn, subject: subject}, nil
}

// PublishBuild publishes one build event.
func (n *NATSNotifier) PublishBuild(event *BuildEvent) error {
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal build event: %w", err)
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish build event: %w", err)
	}
	// Flush so a short-lived CLI run does not exit before the event leaves.
	if err := n.conn.Flush(); err != nil {
		return fmt.Errorf("failed to flush build event: %w", err)
	}

	slog.Debug("published build event",
		logfields.RunID(event.RunID),
		logfields.Subject(n.subject))

	return nil
}

// Close closes the NATS connection.
func (n *NATSNotifier) Close() error {
	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
