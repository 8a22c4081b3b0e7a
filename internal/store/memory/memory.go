// Package memory is a mutex-guarded in-memory store seeded with the
// default taxonomy. It backs local development and tests.
package memory

import (
	"context"
	"sync"

	"smartspend/internal/core"
	"smartspend/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	transactions []core.Transaction
	categories   []core.Category
	members      []core.Member
	tags         []core.ReflectionTag
	settings     core.AppSettings
}

var _ store.Store = (*Store)(nil)

// New returns a store seeded with the default categories, members,
// reflection tags, and settings.
func New() *Store {
	return &Store{
		categories: core.DefaultCategories(),
		members:    core.DefaultMembers(),
		tags:       core.DefaultReflectionTags(),
		settings:   core.DefaultSettings(),
	}
}

func (s *Store) Snapshot(context.Context) (core.AppData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data := core.AppData{
		Transactions: append([]core.Transaction(nil), s.transactions...),
		Categories:   append([]core.Category(nil), s.categories...),
		Members:      append([]core.Member(nil), s.members...),
		Settings:     s.settings,
	}
	core.SortNewestFirst(data.Transactions)
	return data, nil
}

func (s *Store) Replace(_ context.Context, data core.AppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append([]core.Transaction(nil), data.Transactions...)
	s.categories = append([]core.Category(nil), data.Categories...)
	s.members = append([]core.Member(nil), data.Members...)
	s.settings = data.Settings
	return nil
}

func (s *Store) Transactions(context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := append([]core.Transaction(nil), s.transactions...)
	core.SortNewestFirst(txs)
	return txs, nil
}

func (s *Store) Transaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tx := range s.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) AddTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, tx)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == tx.ID {
			s.transactions[i] = tx
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Categories(context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) AddCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			s.categories[i] = c
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Members(context.Context) ([]core.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Member(nil), s.members...), nil
}

func (s *Store) AddMember(_ context.Context, m core.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = append(s.members, m)
	return nil
}

func (s *Store) UpdateMember(_ context.Context, m core.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.members {
		if s.members[i].ID == m.ID {
			s.members[i] = m
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.members {
		if s.members[i].ID == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ReflectionTags(context.Context) ([]core.ReflectionTag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.ReflectionTag(nil), s.tags...), nil
}

func (s *Store) AddReflectionTag(_ context.Context, t core.ReflectionTag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, t)
	return nil
}

func (s *Store) UpdateReflectionTag(_ context.Context, t core.ReflectionTag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tags {
		if s.tags[i].ID == t.ID {
			s.tags[i] = t
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteReflectionTag(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tags {
		if s.tags[i].ID == id {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Settings(context.Context) (core.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings core.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

func (s *Store) Close() error {
	return nil
}
