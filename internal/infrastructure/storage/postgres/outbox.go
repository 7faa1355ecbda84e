package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"ledgerpos/internal/domain/notify"
)

// NotificationOutbox stores notifications in the notifications table, where
// the front end polls them. It implements notify.Sender.
type NotificationOutbox struct {
	txManager *TxManager
}

var _ notify.Sender = (*NotificationOutbox)(nil)

// NewNotificationOutbox creates a new notifications writer.
func NewNotificationOutbox(txManager *TxManager) *NotificationOutbox {
	return &NotificationOutbox{txManager: txManager}
}

// Send inserts n as an unread notification.
func (p *NotificationOutbox) Send(ctx context.Context, n notify.Notification) error {
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal notification data: %w", err)
	}

	_, err = p.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO notifications (id, company_id, type, title, message, entity_id, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.ID, n.CompanyID, string(n.Kind), n.Title, n.Message, n.EntityID, payload, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
