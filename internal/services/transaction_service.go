package services

import (
	"context"
	"fmt"
	"log/slog"

	"smartspend/internal/core"
	"smartspend/internal/store"
)

// SyncPublisher publishes change notifications for the mirror worker.
// A nil publisher disables mirroring entirely.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id string) error
	PublishTransactionDelete(ctx context.Context, id string) error
	Close() error
}

// TransactionService orchestrates transaction writes across the local store
// and the sync queue. Local persistence always wins: a failed publish is
// logged and swallowed, never surfaced to the caller.
type TransactionService struct {
	store     store.Store
	publisher SyncPublisher
}

func NewTransactionService(st store.Store, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		store:     st,
		publisher: publisher,
	}
}

// CreateTransaction saves a transaction locally and publishes a sync message.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := s.store.AddTransaction(ctx, t); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishSync(ctx, t.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transactionId", t.ID, "error", err)
		// Don't fail the request - transaction is saved locally
	}

	return nil
}

// UpdateTransaction updates a transaction locally and publishes a sync message.
func (s *TransactionService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	if err := s.publishSync(ctx, t.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transactionId", t.ID, "error", err)
	}

	return nil
}

// DeleteTransaction removes a transaction locally and publishes a delete message.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := s.publishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"transactionId", id, "error", err)
	}

	return nil
}

// ReplaceAll swaps the entire dataset, as a backup import does. Every
// surviving transaction is re-queued for mirroring.
func (s *TransactionService) ReplaceAll(ctx context.Context, data core.AppData) error {
	if err := s.store.Replace(ctx, data); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}

	for _, t := range data.Transactions {
		if err := s.publishSync(ctx, t.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message after import",
				"transactionId", t.ID, "error", err)
			break // queue is likely down, don't spam
		}
	}

	return nil
}

func (s *TransactionService) publishSync(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Sync publisher not configured, skipping message")
		return nil
	}
	return s.publisher.PublishTransactionSync(ctx, id)
}

func (s *TransactionService) publishDelete(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Sync publisher not configured, skipping message")
		return nil
	}
	return s.publisher.PublishTransactionDelete(ctx, id)
}

// Close closes both the store and the publisher.
func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
