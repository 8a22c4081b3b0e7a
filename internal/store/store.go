// Package store defines the persistence ports the engine and HTTP layer
// talk to. Implementations live in store/memory and storage (SQLite).
package store

import (
	"context"
	"errors"

	"smartspend/internal/core"
)

// ErrNotFound is returned for lookups of ids that do not exist.
var ErrNotFound = errors.New("not found")

type (
	// SnapshotReader supplies an immutable full-state snapshot for the
	// pure engine functions and the backup exporter.
	SnapshotReader interface {
		Snapshot(ctx context.Context) (core.AppData, error)
	}

	// SnapshotWriter atomically replaces the full application state.
	// Either the whole snapshot lands or nothing changes; backup import
	// depends on this.
	SnapshotWriter interface {
		Replace(ctx context.Context, data core.AppData) error
	}

	TransactionStore interface {
		Transactions(ctx context.Context) ([]core.Transaction, error)
		Transaction(ctx context.Context, id string) (core.Transaction, error)
		AddTransaction(ctx context.Context, tx core.Transaction) error
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	CategoryStore interface {
		Categories(ctx context.Context) ([]core.Category, error)
		AddCategory(ctx context.Context, c core.Category) error
		UpdateCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, id string) error
	}

	MemberStore interface {
		Members(ctx context.Context) ([]core.Member, error)
		AddMember(ctx context.Context, m core.Member) error
		UpdateMember(ctx context.Context, m core.Member) error
		DeleteMember(ctx context.Context, id string) error
	}

	ReflectionTagStore interface {
		ReflectionTags(ctx context.Context) ([]core.ReflectionTag, error)
		AddReflectionTag(ctx context.Context, t core.ReflectionTag) error
		UpdateReflectionTag(ctx context.Context, t core.ReflectionTag) error
		DeleteReflectionTag(ctx context.Context, id string) error
	}

	SettingsStore interface {
		Settings(ctx context.Context) (core.AppSettings, error)
		SaveSettings(ctx context.Context, s core.AppSettings) error
	}

	// Store is the full persistence surface.
	Store interface {
		SnapshotReader
		SnapshotWriter
		TransactionStore
		CategoryStore
		MemberStore
		ReflectionTagStore
		SettingsStore
		Close() error
	}
)
