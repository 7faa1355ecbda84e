package reports

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/ledger"
)

// Repository defines report data access interface.
type Repository interface {
	// Open documents dated on or before cutoff, payments included.
	ListOpenSales(ctx context.Context, companyID id.ID, cutoff time.Time) ([]ledger.Sale, error)
	ListOpenPurchaseOrders(ctx context.Context, companyID id.ID, cutoff time.Time) ([]ledger.PurchaseOrder, error)
}
