package bus

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// Subjects for domain events emitted by the API.
const (
	UserRegisteredSubject = "niyyah.users.registered"
	CheckRecordedSubject  = "niyyah.tracker.checked"
)

// Publisher wraps a NATS connection for fire-and-forget domain events.
// A nil Publisher is valid and drops every publish.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the provided NATS endpoint. An empty URL disables publishing.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	nc, err := nats.Connect(url, nats.Name("niyyah-api"))
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: nc}, nil
}

// Close drains the underlying NATS connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// Publish encodes v as JSON and publishes it to the given subject.
// Event delivery is best effort; failures never affect the request path.
func (p *Publisher) Publish(subject string, v any) {
	if p == nil || subject == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = p.conn.Publish(subject, data)
}
