package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"systemaide.org/internal/auth"
	"systemaide.org/internal/books"
)

type memEntries struct {
	byID map[string]*Entry
	seq  int
}

func newMemEntries() *memEntries {
	return &memEntries{byID: map[string]*Entry{}}
}

func (m *memEntries) Append(_ context.Context, e *Entry) error {
	m.seq++
	e.ID = fmt.Sprintf("log-%d", m.seq)
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	m.byID[e.ID] = &cp
	return nil
}

func (m *memEntries) Find(_ context.Context, id string) (*Entry, error) {
	e, ok := m.byID[id]
	if !ok || e.IsDeleted {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEntries) List(_ context.Context) ([]Entry, error) {
	var out []Entry
	for _, e := range m.byID {
		if !e.IsDeleted {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memEntries) ListDeleted(_ context.Context) ([]Entry, error) {
	var out []Entry
	for _, e := range m.byID {
		if e.IsDeleted {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memEntries) ListByKind(_ context.Context, kind books.JournalKind) ([]Entry, error) {
	var out []Entry
	for _, e := range m.byID {
		if !e.IsDeleted && e.Kind == kind {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memEntries) ListByTransaction(_ context.Context, kind books.JournalKind, transactionID string) ([]Entry, error) {
	var out []Entry
	for _, e := range m.byID {
		if !e.IsDeleted && e.Kind == kind && e.TransactionID == transactionID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memEntries) SoftDelete(_ context.Context, id string) error {
	e, ok := m.byID[id]
	if !ok || e.IsDeleted {
		return ErrNotFound
	}
	now := time.Now().UTC()
	e.IsDeleted = true
	e.DeletedAt = &now
	return nil
}

func (m *memEntries) Restore(_ context.Context, id string) error {
	e, ok := m.byID[id]
	if !ok || !e.IsDeleted {
		return ErrNotFound
	}
	now := time.Now().UTC()
	e.IsDeleted = false
	e.RestoredAt = &now
	return nil
}

type stubJournals struct {
	byID map[string]*books.Journal
}

func (s *stubJournals) Find(_ context.Context, kind books.JournalKind, id string) (*books.Journal, error) {
	j, ok := s.byID[id]
	if !ok || j.IsDeleted || j.Kind != kind {
		return nil, books.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

type stubUsers struct {
	byID map[string]*auth.User
}

func (s *stubUsers) Find(_ context.Context, id string) (*auth.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func newTestRecorder(t *testing.T) (*Recorder, *memEntries, *stubJournals, *stubUsers) {
	t.Helper()
	store := newMemEntries()
	journals := &stubJournals{byID: map[string]*books.Journal{}}
	users := &stubUsers{byID: map[string]*auth.User{}}
	rec, err := NewRecorder(store, journals, users)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	return rec, store, journals, users
}

func TestRecordValidation(t *testing.T) {
	rec, _, _, _ := newTestRecorder(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RecordInput
	}{
		{"unknown kind", RecordInput{Kind: "SecretLedger", TransactionID: "tx-1", Action: ActionCreate, ActorID: "u-1"}},
		{"unknown action", RecordInput{Kind: books.KindGeneralJournal, TransactionID: "tx-1", Action: "PATCH", ActorID: "u-1"}},
		{"missing transaction id", RecordInput{Kind: books.KindGeneralJournal, Action: ActionCreate, ActorID: "u-1"}},
		{"missing actor", RecordInput{Kind: books.KindGeneralJournal, TransactionID: "tx-1", Action: ActionCreate}},
	}
	for _, tc := range cases {
		if _, err := rec.Record(ctx, tc.in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected invalid input, got %v", tc.name, err)
		}
	}

	entry, err := rec.Record(ctx, RecordInput{
		Kind:          books.KindGeneralJournal,
		TransactionID: "tx-1",
		Action:        ActionCreate,
		Remarks:       "posted opening entry",
		ActorID:       "u-1",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Fatal("recorded entry must carry id and timestamp")
	}
}

func TestPopulationNullsDeletedJournal(t *testing.T) {
	rec, _, journals, users := newTestRecorder(t)
	ctx := context.Background()

	journals.byID["tx-1"] = &books.Journal{ID: "tx-1", Kind: books.KindCashReceipts, RefNo: "OR-0001"}
	users.byID["u-1"] = &auth.User{ID: "u-1", FirstName: "Ada", Email: "ada@test.io"}

	entry, err := rec.Record(ctx, RecordInput{
		Kind: books.KindCashReceipts, TransactionID: "tx-1", Action: ActionUpdate, ActorID: "u-1",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	view, err := rec.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Transaction == nil || view.Transaction.RefNo != "OR-0001" {
		t.Fatal("active journal must populate")
	}
	if view.Actor == nil || view.Actor.ID != "u-1" {
		t.Fatal("actor must populate")
	}

	journals.byID["tx-1"].IsDeleted = true
	view, err = rec.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get after journal delete: %v", err)
	}
	if view.Transaction != nil {
		t.Fatal("soft-deleted journal must read as nil")
	}
	if view.TransactionID != "tx-1" {
		t.Fatal("raw transaction id must survive the null-out")
	}
}

func TestKindScopedReads(t *testing.T) {
	rec, _, _, _ := newTestRecorder(t)
	ctx := context.Background()

	for _, kind := range []books.JournalKind{books.KindGeneralJournal, books.KindSalesOnAccount, books.KindGeneralJournal} {
		if _, err := rec.Record(ctx, RecordInput{Kind: kind, TransactionID: "tx-9", Action: ActionCreate, ActorID: "u-1"}); err != nil {
			t.Fatalf("Record %s: %v", kind, err)
		}
	}

	general, err := rec.ListByKind(ctx, books.KindGeneralJournal)
	if err != nil || len(general) != 2 {
		t.Fatalf("by-kind listing: %v %d", err, len(general))
	}
	sales, err := rec.ListByTransaction(ctx, books.KindSalesOnAccount, "tx-9")
	if err != nil || len(sales) != 1 {
		t.Fatalf("by-transaction listing: %v %d", err, len(sales))
	}
	if _, err := rec.ListByKind(ctx, "SecretLedger"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown kind must be rejected, got %v", err)
	}
}

func TestEntryDeleteRestoreRoundTrip(t *testing.T) {
	rec, _, _, _ := newTestRecorder(t)
	ctx := context.Background()

	entry, err := rec.Record(ctx, RecordInput{
		Kind: books.KindPurchaseOnAccount, TransactionID: "tx-2", Action: ActionDelete, ActorID: "u-1",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := rec.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := rec.Get(ctx, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted entry must vanish from active reads, got %v", err)
	}
	deleted, err := rec.ListDeleted(ctx)
	if err != nil || len(deleted) != 1 {
		t.Fatalf("deleted listing: %v %d", err, len(deleted))
	}
	if err := rec.Restore(ctx, entry.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	view, err := rec.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get after restore: %v", err)
	}
	if view.RestoredAt == nil || view.DeletedAt == nil {
		t.Fatal("restore stamps restoredAt and keeps deletedAt")
	}
}
