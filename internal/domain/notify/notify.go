// Package notify is the fire-and-forget notification side channel used on new
// sales and received payments.
package notify

import (
	"context"
	"sync"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/pkg/logger"
)

// Kind identifies the event a notification reports.
type Kind string

const (
	KindNewSale         Kind = "new_sale"
	KindPaymentReceived Kind = "payment_received"
)

// Notification is one message for a company's users.
type Notification struct {
	ID        id.ID          `json:"id"`
	CompanyID id.ID          `json:"companyId"`
	Kind      Kind           `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	EntityID  *id.ID         `json:"entityId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Sender delivers a notification to its channel.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, n Notification) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, n Notification) error { return f(ctx, n) }

// Nop discards every notification.
var Nop Sender = SenderFunc(func(context.Context, Notification) error { return nil })

// Notifier is what services depend on.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Dispatcher sends notifications in the background. Callers never wait on
// delivery and never see its errors.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	log     *logger.Logger
	wg      sync.WaitGroup
}

// DefaultTimeout bounds one delivery attempt.
const DefaultTimeout = 5 * time.Second

// NewDispatcher creates a dispatcher over sender.
func NewDispatcher(sender Sender, timeout time.Duration, log *logger.Logger) *Dispatcher {
	if sender == nil {
		sender = Nop
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Default()
	}
	return &Dispatcher{
		sender:  sender,
		timeout: timeout,
		log:     log.WithComponent("notify"),
	}
}

// Notify queues n for delivery and returns immediately. The send keeps the
// request's values but not its cancellation.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if id.IsNil(n.ID) {
		n.ID = id.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.WithContext(detached).Errorw("notification sender panicked", "kind", n.Kind, "panic", r)
			}
		}()

		sendCtx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		if err := d.sender.Send(sendCtx, n); err != nil {
			d.log.WithContext(detached).Warnw("notification not delivered",
				"kind", n.Kind,
				"company_id", n.CompanyID,
				"entity_id", n.EntityID,
				"error", err,
			)
		}
	}()
}

// Wait blocks until every queued notification has been attempted.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown waits for in-flight sends or until ctx is done.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
