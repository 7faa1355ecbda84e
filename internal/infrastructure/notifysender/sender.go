package notifysender

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"ledgerpos/internal/domain/notify"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// Backend names a delivery channel.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
	BackendNone     Backend = "none"
)

// Deps are the connections a backend may need.
type Deps struct {
	TxManager *postgres.TxManager
	Redis     *redis.Client
}

// New returns the sender for backend.
func New(backend Backend, deps Deps) (notify.Sender, error) {
	switch backend {
	case BackendPostgres, "":
		if deps.TxManager == nil {
			return nil, fmt.Errorf("notifysender: postgres backend needs a database")
		}
		return postgres.NewNotificationOutbox(deps.TxManager), nil
	case BackendRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("notifysender: redis backend needs a client")
		}
		return NewRedis(deps.Redis), nil
	case BackendNone:
		return notify.Nop, nil
	default:
		return nil, fmt.Errorf("notifysender: unknown backend %q", backend)
	}
}
