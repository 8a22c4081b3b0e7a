package services

import (
	"context"
	"errors"
	"testing"

	"smartspend/internal/core"
	"smartspend/internal/store/memory"
)

type recordingPublisher struct {
	synced  []string
	deleted []string
	fail    bool
	closed  bool
}

func (p *recordingPublisher) PublishTransactionSync(_ context.Context, id string) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.synced = append(p.synced, id)
	return nil
}

func (p *recordingPublisher) PublishTransactionDelete(_ context.Context, id string) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.deleted = append(p.deleted, id)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func testTransaction(id string) core.Transaction {
	return core.Transaction{
		ID:         id,
		Name:       "Coffee",
		Amount:     3.5,
		CategoryID: "c1",
		MemberIDs:  []string{"m1"},
		Date:       core.NewDate(2024, 6, 1),
		Timestamp:  1717200000000,
	}
}

func TestCreateTransactionPublishesSync(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(memory.New(), pub)
	ctx := context.Background()

	if err := svc.CreateTransaction(ctx, testTransaction("t1")); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if len(pub.synced) != 1 || pub.synced[0] != "t1" {
		t.Errorf("unexpected sync messages: %v", pub.synced)
	}
}

func TestCreateTransactionSurvivesPublishFailure(t *testing.T) {
	pub := &recordingPublisher{fail: true}
	st := memory.New()
	svc := NewTransactionService(st, pub)
	ctx := context.Background()

	if err := svc.CreateTransaction(ctx, testTransaction("t1")); err != nil {
		t.Fatalf("publish failure should not fail the request: %v", err)
	}

	// Transaction still landed locally.
	if _, err := st.Transaction(ctx, "t1"); err != nil {
		t.Errorf("transaction not persisted: %v", err)
	}
}

func TestDeleteTransactionPublishesDelete(t *testing.T) {
	pub := &recordingPublisher{}
	st := memory.New()
	svc := NewTransactionService(st, pub)
	ctx := context.Background()

	if err := svc.CreateTransaction(ctx, testTransaction("t1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != "t1" {
		t.Errorf("unexpected delete messages: %v", pub.deleted)
	}
}

func TestReplaceAllRequeuesTransactions(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(memory.New(), pub)

	data := core.AppData{
		Transactions: []core.Transaction{testTransaction("t1"), testTransaction("t2")},
		Categories:   core.DefaultCategories(),
		Members:      core.DefaultMembers(),
		Settings:     core.DefaultSettings(),
	}

	if err := svc.ReplaceAll(context.Background(), data); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if len(pub.synced) != 2 {
		t.Errorf("expected 2 sync messages, got %v", pub.synced)
	}
}

func TestNilPublisherIsFine(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	if err := svc.CreateTransaction(context.Background(), testTransaction("t1")); err != nil {
		t.Fatalf("CreateTransaction without publisher: %v", err)
	}
}

func TestCloseClosesBoth(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(memory.New(), pub)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pub.closed {
		t.Error("publisher not closed")
	}
}
