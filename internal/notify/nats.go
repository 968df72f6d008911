// Package notify publishes run reports to NATS. Filling the notifier
// capability, it is always optional: a missing or unreachable broker
// degrades the run report delivery, never the run.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/pkgfoundry/internal/provider"
	"git.home.luguber.info/inful/pkgfoundry/internal/retry"
)

const (
	// DefaultSubject is where run reports land unless configured.
	DefaultSubject = "pkgfoundry.runs"

	connectTimeout = 5 * time.Second
)

// NATSNotifier publishes run reports onto a NATS subject.
type NATSNotifier struct {
	url     string
	subject string
	policy  retry.Policy

	connect func(url string, opts ...nats.Option) (*nats.Conn, error)
	conn    *nats.Conn
}

// NewNATSNotifier constructs the provider from capability options. The
// "url" option is mandatory; registration is skipped entirely when
// notification is not configured.
func NewNATSNotifier(options map[string]string) (provider.Provider, error) {
	url := options["url"]
	if url == "" {
		return nil, fmt.Errorf("notifier url is not configured")
	}
	subject := options["subject"]
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSNotifier{
		url:     url,
		subject: subject,
		policy:  retry.NewPolicy(retry.BackoffLinear, 500*time.Millisecond, 5*time.Second, 2),
		connect: nats.Connect,
	}, nil
}

func (n *NATSNotifier) Name() string                    { return "nats" }
func (n *NATSNotifier) Capability() provider.Capability { return provider.CapabilityNotifier }

// ValidateConnection dials the broker once; the connection is reused by
// Execute.
func (n *NATSNotifier) ValidateConnection(context.Context) error {
	conn, err := n.connect(n.url,
		nats.Timeout(connectTimeout),
		nats.RetryOnFailedConnect(false),
		nats.Name("pkgfoundry"),
	)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", n.url, err)
	}
	n.conn = conn
	return nil
}

// Execute publishes the request payload as one message.
func (n *NATSNotifier) Execute(ctx context.Context, req provider.Request) (provider.Result, error) {
	if n.conn == nil {
		return provider.Result{}, fmt.Errorf("notifier is not connected")
	}
	subject := req.Option("subject", n.subject)
	err := retry.Do(ctx, n.policy, func() error {
		if err := n.conn.Publish(subject, req.Payload); err != nil {
			return fmt.Errorf("publish report: %w", err)
		}
		if err := n.conn.FlushWithContext(ctx); err != nil {
			return fmt.Errorf("flush report: %w", err)
		}
		return nil
	})
	if err != nil {
		return provider.Result{}, err
	}
	return provider.Result{
		Summary: "report published",
		Details: map[string]string{"subject": subject, "bytes": fmt.Sprint(len(req.Payload))},
	}, nil
}

// Close releases the broker connection. Called by the registry at
// teardown.
func (n *NATSNotifier) Close() error {
	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
	}
	return nil
}
