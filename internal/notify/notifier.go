package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/retry"
)

// Notifier delivers build events.
type Notifier interface {
	Publish(ctx context.Context, event BuildEvent) error
	Close() error
}

// Noop drops every event (default when no NATS URL is configured).
type Noop struct{}

func (Noop) Publish(context.Context, BuildEvent) error { return nil }
func (Noop) Close() error                              { return nil }

// Options configure a NATS notifier.
type Options struct {
	URL     string
	Subject string
	// Retry governs Publish attempts. The zero value publishes once.
	Retry retry.Policy
}

// NATSNotifier publishes events as JSON on a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
	retry   retry.Policy
}

// New returns a NATSNotifier, or Noop when no URL is configured.
func New(opts Options) (Notifier, error) {
	if opts.URL == "" {
		return Noop{}, nil
	}
	n, err := NewNATS(opts)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// NewNATS connects to NATS. The connection is shared by every Publish until
// Close.
func NewNATS(opts Options) (*NATSNotifier, error) {
	url, subject := opts.URL, opts.Subject
	conn, err := nats.Connect(url,
		nats.Name("pagesmith"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, errors.IntegrationError(err, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}
	slog.Info("NATS notifier connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSNotifier{conn: conn, subject: subject, retry: opts.Retry}, nil
}

// Publish sends the event and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Publish(ctx context.Context, event BuildEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build event").
			WithContext(logfields.KeyBuildID, event.BuildID).
			Build()
	}
	err = n.retry.Do(ctx, func(ctx context.Context) error {
		return n.publish(ctx, data)
	})
	if err != nil {
		return errors.IntegrationError(err, "failed to publish build event").
			Warning().
			WithContext(logfields.KeyBuildID, event.BuildID).
			WithContext("subject", n.subject).
			Build()
	}
	slog.Debug("Published build event",
		logfields.BuildID(event.BuildID),
		slog.String("subject", n.subject),
		slog.String("outcome", event.Outcome))
	return nil
}

func (n *NATSNotifier) publish(ctx context.Context, data []byte) error {
	if err := n.conn.Publish(n.subject, data); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return n.conn.FlushWithContext(ctx)
}

// Close closes the NATS connection.
func (n *NATSNotifier) Close() error {
	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
