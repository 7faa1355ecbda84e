// Package notifysender provides the delivery channels behind notify.Dispatcher.
package notifysender

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/notify"
)

// RecentLimit is how many notifications are kept per company for clients
// that connect after a publish.
const RecentLimit = 100

// Redis publishes notifications on notifications:<company_id> and keeps the
// latest ones in a capped list.
type Redis struct {
	client *redis.Client
}

var _ notify.Sender = (*Redis)(nil)

// NewRedis creates a Redis sender.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Channel is the pub/sub channel of a company.
func Channel(companyID id.ID) string {
	return "notifications:" + companyID.String()
}

// RecentKey is the list holding a company's latest notifications.
func RecentKey(companyID id.ID) string {
	return Channel(companyID) + ":recent"
}

// Send implements notify.Sender.
func (r *Redis) Send(ctx context.Context, n notify.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	key := RecentKey(n.CompanyID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, RecentLimit-1)
		pipe.Publish(ctx, Channel(n.CompanyID), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Connect creates a client and checks it answers within five seconds.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("notifysender: ping redis: %w", err)
	}
	return client, nil
}
