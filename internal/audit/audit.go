// Package audit records who did what to which transaction. Entries
// reference a journal row polymorphically through the kind tag plus the
// transaction id, and are themselves soft-deletable.
package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"systemaide.org/internal/auth"
	"systemaide.org/internal/books"
)

var (
	ErrNotFound     = errors.New("audit: not found")
	ErrInvalidInput = errors.New("audit: invalid input")
)

// Action is the recorded operation.
type Action string

const (
	ActionCreate  Action = "CREATE"
	ActionUpdate  Action = "UPDATE"
	ActionDelete  Action = "DELETE"
	ActionRestore Action = "RESTORE"
)

// ValidAction reports whether a is a recordable operation.
func ValidAction(a Action) bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionRestore:
		return true
	}
	return false
}

// Entry is one audit record. Kind names the book the transaction id
// resolves against; an id is only meaningful under its kind.
type Entry struct {
	ID            string            `json:"_id"`
	Kind          books.JournalKind `json:"transaction"`
	TransactionID string            `json:"transactionId"`
	Action        Action            `json:"action"`
	Remarks       string            `json:"remarks"`
	ActorID       string            `json:"remarksBy"`
	books.Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntryView is an entry with its referents populated. Transaction is
// nil when the journal row is missing or soft-deleted; Actor is nil
// when the user record is gone.
type EntryView struct {
	Entry
	Transaction *books.Journal `json:"transactionInfo,omitempty"`
	Actor       *auth.User     `json:"remarksByInfo,omitempty"`
}

// Store persists audit entries.
type Store interface {
	Append(ctx context.Context, e *Entry) error
	Find(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context) ([]Entry, error)
	ListDeleted(ctx context.Context) ([]Entry, error)
	ListByKind(ctx context.Context, kind books.JournalKind) ([]Entry, error)
	ListByTransaction(ctx context.Context, kind books.JournalKind, transactionID string) ([]Entry, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

// JournalSource resolves the referenced journal row for population.
type JournalSource interface {
	Find(ctx context.Context, kind books.JournalKind, id string) (*books.Journal, error)
}

// UserSource resolves the acting user for population.
type UserSource interface {
	Find(ctx context.Context, id string) (*auth.User, error)
}

// Recorder validates and appends audit entries and serves populated
// reads.
type Recorder struct {
	store    Store
	journals JournalSource
	users    UserSource
}

// NewRecorder constructs a Recorder. Sources may be nil when populated
// reads are not needed (referents then read as nil).
func NewRecorder(store Store, journals JournalSource, users UserSource) (*Recorder, error) {
	if store == nil {
		return nil, errors.New("audit: store is required")
	}
	return &Recorder{store: store, journals: journals, users: users}, nil
}

// RecordInput carries one audit record payload.
type RecordInput struct {
	Kind          books.JournalKind
	TransactionID string
	Action        Action
	Remarks       string
	ActorID       string
}

// Record validates the tag, action and actor, then appends the entry.
func (r *Recorder) Record(ctx context.Context, in RecordInput) (*Entry, error) {
	if !books.ValidKind(in.Kind) {
		return nil, fmt.Errorf("%w: unknown transaction kind %s", ErrInvalidInput, in.Kind)
	}
	if !ValidAction(in.Action) {
		return nil, fmt.Errorf("%w: unknown action %s", ErrInvalidInput, in.Action)
	}
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	if in.TransactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	in.ActorID = strings.TrimSpace(in.ActorID)
	if in.ActorID == "" {
		return nil, fmt.Errorf("%w: acting user is required", ErrInvalidInput)
	}
	entry := &Entry{
		Kind:          in.Kind,
		TransactionID: in.TransactionID,
		Action:        in.Action,
		Remarks:       strings.TrimSpace(in.Remarks),
		ActorID:       in.ActorID,
	}
	if err := r.store.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns active entries with referents populated.
func (r *Recorder) List(ctx context.Context) ([]EntryView, error) {
	entries, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return r.views(ctx, entries), nil
}

// ListDeleted returns soft-deleted entries, unpopulated.
func (r *Recorder) ListDeleted(ctx context.Context) ([]Entry, error) {
	return r.store.ListDeleted(ctx)
}

// ListByKind returns active entries for one book.
func (r *Recorder) ListByKind(ctx context.Context, kind books.JournalKind) ([]EntryView, error) {
	if !books.ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown transaction kind %s", ErrInvalidInput, kind)
	}
	entries, err := r.store.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	return r.views(ctx, entries), nil
}

// ListByTransaction returns active entries for one journal row.
func (r *Recorder) ListByTransaction(ctx context.Context, kind books.JournalKind, transactionID string) ([]EntryView, error) {
	if !books.ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown transaction kind %s", ErrInvalidInput, kind)
	}
	if transactionID = strings.TrimSpace(transactionID); transactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	entries, err := r.store.ListByTransaction(ctx, kind, transactionID)
	if err != nil {
		return nil, err
	}
	return r.views(ctx, entries), nil
}

// Get returns one active entry with referents populated.
func (r *Recorder) Get(ctx context.Context, id string) (*EntryView, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}
	entry, err := r.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := r.view(ctx, entry)
	return &view, nil
}

// Delete soft-deletes an entry.
func (r *Recorder) Delete(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}
	return r.store.SoftDelete(ctx, id)
}

// Restore brings a soft-deleted entry back.
func (r *Recorder) Restore(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}
	return r.store.Restore(ctx, id)
}

func (r *Recorder) views(ctx context.Context, entries []Entry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for i := range entries {
		views = append(views, r.view(ctx, &entries[i]))
	}
	return views
}

// view populates the journal and actor references. A soft-deleted or
// missing journal row reads as nil.
func (r *Recorder) view(ctx context.Context, entry *Entry) EntryView {
	view := EntryView{Entry: *entry}
	if r.journals != nil {
		if journal, err := r.journals.Find(ctx, entry.Kind, entry.TransactionID); err == nil {
			view.Transaction = journal
		}
	}
	if r.users != nil && entry.ActorID != "" {
		if actor, err := r.users.Find(ctx, entry.ActorID); err == nil {
			view.Actor = actor
		}
	}
	return view
}
