package sheets

import (
	"context"

	"smartspend/internal/core"
)

// Ports for outbound mirror adapters.
type (
	// TransactionWriter mirrors a transaction to an external sheet. Rows are
	// keyed by transaction id, so writing the same id twice updates in place.
	TransactionWriter interface {
		Upsert(ctx context.Context, t core.Transaction, data core.AppData) (rowRef string, err error)
	}

	// TransactionDeleter removes a mirrored transaction row by id.
	TransactionDeleter interface {
		Delete(ctx context.Context, id string) error
	}
)

// Mirror combines the write-side ports the sync worker needs.
type Mirror interface {
	TransactionWriter
	TransactionDeleter
}
