package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"smartspend/internal/amqp"
	"smartspend/internal/core"
	"smartspend/internal/sheets"
	"smartspend/internal/storage"
	"smartspend/internal/store"
)

// SyncWorker mirrors local transactions to an external sheet. It is driven
// by AMQP messages and backed up by a periodic scan of unsynced rows.
type SyncWorker struct {
	storage   *storage.SQLiteStore
	mirror    sheets.Mirror
	batchSize int
}

func NewSyncWorker(st *storage.SQLiteStore, mirror sheets.Mirror, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   st,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleMessage dispatches a single AMQP message by kind.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	switch msg.Kind {
	case amqp.KindTransactionSync:
		return w.handleSync(ctx, msg.TransactionID)
	case amqp.KindTransactionDelete:
		return w.handleDelete(ctx, msg.TransactionID)
	default:
		slog.WarnContext(ctx, "Ignoring message of unknown kind", "kind", msg.Kind)
		return nil
	}
}

func (w *SyncWorker) handleSync(ctx context.Context, id string) error {
	tx, err := w.storage.Transaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted locally between publish and consume. The delete message
		// that follows will clean up the mirror.
		slog.InfoContext(ctx, "Transaction gone before sync, skipping", "transactionId", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.mirrorTransaction(ctx, tx)
}

func (w *SyncWorker) handleDelete(ctx context.Context, id string) error {
	if err := w.mirror.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete mirrored row: %w", err)
	}
	slog.InfoContext(ctx, "Removed transaction from mirror", "transactionId", id)
	return nil
}

func (w *SyncWorker) mirrorTransaction(ctx context.Context, tx core.Transaction) error {
	data, err := w.storage.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot for mirroring: %w", err)
	}

	ref, err := w.mirror.Upsert(ctx, tx, data)
	if err != nil {
		return fmt.Errorf("mirror transaction: %w", err)
	}

	if err := w.storage.MarkTransactionSynced(ctx, tx.ID); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction",
		"transactionId", tx.ID,
		"rowRef", ref)

	return nil
}

// ProcessPending mirrors transactions whose sync flag is still clear. This
// is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.UnsyncedTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get unsynced transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing unsynced transactions", "count", len(pending))

	for _, tx := range pending {
		if err := w.mirrorTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction",
				"transactionId", tx.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck mirrors the unsynced backlog at worker startup with a
// bounded amount of parallelism. Useful to recover from missed messages or
// worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Larger batch for the startup pass
	pending, err := w.storage.UnsyncedTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get unsynced transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No unsynced transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found unsynced transactions on startup, processing...",
		"count", len(pending))

	// The snapshot is loaded once and shared; per-item reloads would hammer
	// the database for no benefit during a backlog drain.
	data, err := w.storage.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot for startup sync: %w", err)
	}

	// Mirror uploads run in parallel; the synced-flag updates are collected
	// and written sequentially afterwards, since SQLite allows only one
	// writer at a time.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	mirrored := make([]string, len(pending))
	for i, tx := range pending {
		g.Go(func() error {
			ref, err := w.mirror.Upsert(gctx, tx, data)
			if err != nil {
				slog.ErrorContext(gctx, "Failed to mirror transaction during startup",
					"transactionId", tx.ID, "error", err)
				return nil // keep draining the rest of the backlog
			}
			mirrored[i] = tx.ID
			slog.InfoContext(gctx, "Mirrored transaction during startup",
				"transactionId", tx.ID, "rowRef", ref)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}

	var synced int
	for _, id := range mirrored {
		if id == "" {
			continue
		}
		if err := w.storage.MarkTransactionSynced(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to mark transaction synced",
				"transactionId", id, "error", err)
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending), "synced", synced)
	return nil
}
