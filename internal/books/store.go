package books

import (
	"context"
	"time"
)

// CompanyUpdate carries optional field rewrites; nil means keep.
type CompanyUpdate struct {
	TIN                      *string
	TaxClassification        *string
	RegisteredName           *string
	BusinessAddress          *string
	RDO                      *string
	FiscalYear               *string
	BusinessType             *string
	LineOfBusiness           *string
	TelephoneFax             *string
	AuthorizedRepresentative *string
}

// CompanyStore persists company profiles.
type CompanyStore interface {
	Create(ctx context.Context, c *CompanyInfo) error
	Find(ctx context.Context, id string) (*CompanyInfo, error)
	Latest(ctx context.Context) (*CompanyInfo, error)
	List(ctx context.Context) ([]CompanyInfo, error)
	Update(ctx context.Context, id string, upd CompanyUpdate) (*CompanyInfo, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type BranchUpdate struct {
	Name      *string
	Address   *string
	TIN       *string
	MachineID *string
}

// BranchStore persists branches.
type BranchStore interface {
	Create(ctx context.Context, b *Branch) error
	Find(ctx context.Context, id string) (*Branch, error)
	List(ctx context.Context) ([]Branch, error)
	ListDeleted(ctx context.Context) ([]Branch, error)
	Update(ctx context.Context, id string, upd BranchUpdate) (*Branch, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type LocationUpdate struct {
	Name      *string
	Address   *string
	TIN       *string
	MachineID *string
	BranchID  *string
}

// LocationStore persists locations.
type LocationStore interface {
	Create(ctx context.Context, l *Location) error
	Find(ctx context.Context, id string) (*Location, error)
	List(ctx context.Context) ([]Location, error)
	ListDeleted(ctx context.Context) ([]Location, error)
	ListByBranch(ctx context.Context, branchID string) ([]Location, error)
	Update(ctx context.Context, id string, upd LocationUpdate) (*Location, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type AgentUpdate struct {
	AgentCode                *string
	TIN                      *string
	TaxClassification        *string
	RegisteredName           *string
	AgentName                *string
	TradeName                *string
	AgentType                *string
	RegistrationType         *string
	AuthorizedRepresentative *string
	Address                  *string
	Email                    *string
	Phone                    *string
	Fax                      *string
	Website                  *string
}

// AgentStore persists agents.
type AgentStore interface {
	Create(ctx context.Context, a *Agent) error
	Find(ctx context.Context, id string) (*Agent, error)
	FindByCode(ctx context.Context, code string) (*Agent, error)
	List(ctx context.Context) ([]Agent, error)
	ListDeleted(ctx context.Context) ([]Agent, error)
	Update(ctx context.Context, id string, upd AgentUpdate) (*Agent, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type AccountUpdate struct {
	AccountCode   *string
	AccountName   *string
	AccountType   *string
	NormalBalance *string
	// ParentID rewrites the parent when set; pointing it at an empty
	// string detaches the account to top level.
	ParentID *string
}

// AccountStore persists the chart of accounts.
type AccountStore interface {
	Create(ctx context.Context, a *ChartOfAccount) error
	Find(ctx context.Context, id string) (*ChartOfAccount, error)
	FindByCode(ctx context.Context, code string) (*ChartOfAccount, error)
	List(ctx context.Context) ([]ChartOfAccount, error)
	ListDeleted(ctx context.Context) ([]ChartOfAccount, error)
	ListParents(ctx context.Context) ([]ChartOfAccount, error)
	ListChildren(ctx context.Context, parentID string) ([]ChartOfAccount, error)
	Update(ctx context.Context, id string, upd AccountUpdate) (*ChartOfAccount, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	// PurgeAll hard-deletes every row, deleted or not. Irreversible.
	PurgeAll(ctx context.Context) (int, error)
}

type JournalUpdate struct {
	Date             *time.Time
	LocationID       *string
	AgentID          *string
	AccountID        *string
	RefNo            *string
	CheckNo          *string
	Address          *string
	TIN              *string
	Amount           *float64
	Particular       *string
	TransactionLines *string
}

// JournalStore persists the five books in one table keyed by kind.
// Every read and write is scoped to a kind; an id that exists under a
// different kind is not found.
type JournalStore interface {
	Create(ctx context.Context, j *Journal) error
	Find(ctx context.Context, kind JournalKind, id string) (*Journal, error)
	List(ctx context.Context, kind JournalKind) ([]Journal, error)
	ListDeleted(ctx context.Context, kind JournalKind) ([]Journal, error)
	Update(ctx context.Context, kind JournalKind, id string, upd JournalUpdate) (*Journal, error)
	SoftDelete(ctx context.Context, kind JournalKind, id string) error
	Restore(ctx context.Context, kind JournalKind, id string) error
}

// Store bundles every books store.
type Store interface {
	Companies() CompanyStore
	Branches() BranchStore
	Locations() LocationStore
	Agents() AgentStore
	Accounts() AccountStore
	Journals() JournalStore
}
