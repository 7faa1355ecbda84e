package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/pkg/logger"
)

type captureSender struct {
	mu    sync.Mutex
	got   []Notification
	ctxOK []bool
	err   error
	block chan struct{}
}

func (c *captureSender) Send(ctx context.Context, n Notification) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, n)
	c.ctxOK = append(c.ctxOK, ctx.Err() == nil)
	return c.err
}

func TestDispatcher_DeliversDetachedFromRequest(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(sender, time.Second, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, NewSale(id.New(), id.New(), "V-2026-00001", types.MustMoney("300")))
	cancel()
	d.Wait()

	require.Len(t, sender.got, 1)
	assert.True(t, sender.ctxOK[0], "request cancellation must not reach the sender")
	assert.False(t, id.IsNil(sender.got[0].ID))
	assert.False(t, sender.got[0].CreatedAt.IsZero())
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	sender := &captureSender{block: make(chan struct{})}
	d := NewDispatcher(sender, time.Second, logger.NewNop())

	returned := make(chan struct{})
	go func() {
		d.Notify(context.Background(), Notification{Kind: KindPaymentReceived})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify waited on the sender")
	}

	close(sender.block)
	d.Wait()
	assert.Len(t, sender.got, 1)
}

func TestDispatcher_SwallowsFailures(t *testing.T) {
	d := NewDispatcher(&captureSender{err: errors.New("channel down")}, time.Second, logger.NewNop())

	assert.NotPanics(t, func() {
		d.Notify(context.Background(), Notification{Kind: KindNewSale})
		d.Wait()
	})
}

func TestDispatcher_RecoversSenderPanic(t *testing.T) {
	d := NewDispatcher(SenderFunc(func(context.Context, Notification) error {
		panic("boom")
	}), time.Second, logger.NewNop())

	d.Notify(context.Background(), Notification{})
	d.Wait()
}

func TestDispatcher_Shutdown(t *testing.T) {
	sender := &captureSender{block: make(chan struct{})}
	d := NewDispatcher(sender, time.Second, logger.NewNop())
	d.Notify(context.Background(), Notification{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)

	close(sender.block)
	assert.NoError(t, d.Shutdown(context.Background()))
}

func TestMessages(t *testing.T) {
	company, doc := id.New(), id.New()

	n := PaymentReceived(company, doc, "sale", "V-2026-00042", types.MustMoney("150.5"))

	assert.Equal(t, KindPaymentReceived, n.Kind)
	assert.Equal(t, "Se registró un pago de $150.50 en V-2026-00042", n.Message)
	assert.Equal(t, doc, *n.EntityID)
	assert.Equal(t, company, n.CompanyID)
}
