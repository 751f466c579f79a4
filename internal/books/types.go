package books

import "time"

// Lifecycle carries the soft-delete state every domain entity embeds.
// Restore flips IsDeleted back but keeps DeletedAt as history.
type Lifecycle struct {
	IsDeleted  bool       `json:"isDeleted"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
	RestoredAt *time.Time `json:"restoredAt,omitempty"`
}

// CompanyInfo is the registered business profile. The service keeps one
// effective record; Latest returns the most recently created row.
type CompanyInfo struct {
	ID                       string    `json:"_id"`
	TIN                      string    `json:"tin"`
	TaxClassification        string    `json:"taxClassification"`
	RegisteredName           string    `json:"registeredName"`
	BusinessAddress          string    `json:"businessAddress"`
	RDO                      string    `json:"rdo"`
	FiscalYear               string    `json:"fiscalYear"`
	BusinessType             string    `json:"businessType"`
	LineOfBusiness           string    `json:"lineOfBusiness"`
	TelephoneFax             string    `json:"telephoneFax"`
	AuthorizedRepresentative string    `json:"authorizedRepresentative"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Branch is a registered business branch.
type Branch struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	TIN       string `json:"tin"`
	MachineID string `json:"machineId"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Location is a bookkeeping location under a branch.
type Location struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	TIN       string `json:"tin"`
	MachineID string `json:"machineId"`
	BranchID  string `json:"branch,omitempty"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LocationView is a location with its branch populated. Branch is nil
// when the referenced branch is missing or soft-deleted.
type LocationView struct {
	Location
	Branch *Branch `json:"branchInfo,omitempty"`
}

// Agent is a payee/customer/supplier the journals reference.
type Agent struct {
	ID                       string `json:"_id"`
	AgentCode                string `json:"agentCode"`
	TIN                      string `json:"tin"`
	TaxClassification        string `json:"taxClassification"`
	RegisteredName           string `json:"registeredName"`
	AgentName                string `json:"agentName"`
	TradeName                string `json:"tradeName"`
	AgentType                string `json:"agentType"`
	RegistrationType         string `json:"registrationType"`
	AuthorizedRepresentative string `json:"authorizedRepresentative"`
	Address                  string `json:"address"`
	Email                    string `json:"email"`
	Phone                    string `json:"phone"`
	Fax                      string `json:"fax"`
	Website                  string `json:"website"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChartOfAccount is one ledger account. ParentID is nil for top-level
// accounts.
type ChartOfAccount struct {
	ID            string  `json:"_id"`
	AccountCode   string  `json:"accountCode"`
	AccountName   string  `json:"accountName"`
	AccountType   string  `json:"accountType"`
	NormalBalance string  `json:"normalBalance"`
	ParentID      *string `json:"parentAccount,omitempty"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AccountView is an account with its parent populated. Parent is nil
// when the parent is missing or soft-deleted.
type AccountView struct {
	ChartOfAccount
	Parent *ChartOfAccount `json:"parentAccountInfo,omitempty"`
}

// JournalKind tags a journal row with its book of original entry.
type JournalKind string

const (
	KindCashDisbursement  JournalKind = "CashDisbursementTransaction"
	KindCashReceipts      JournalKind = "CashReceiptsTransaction"
	KindSalesOnAccount    JournalKind = "SalesOnAccount"
	KindPurchaseOnAccount JournalKind = "PurchaseOnAccountTransaction"
	KindGeneralJournal    JournalKind = "GeneralJournal"
)

// JournalKinds lists every supported kind in a stable order.
var JournalKinds = []JournalKind{
	KindCashDisbursement,
	KindCashReceipts,
	KindSalesOnAccount,
	KindPurchaseOnAccount,
	KindGeneralJournal,
}

// ValidKind reports whether k is one of the five journal tags.
func ValidKind(k JournalKind) bool {
	for _, known := range JournalKinds {
		if known == k {
			return true
		}
	}
	return false
}

// Journal is one transaction row in any of the five books. RefNo holds
// the book-specific document number (check voucher, official receipt,
// invoice or journal voucher number). TransactionLines carries the raw
// line-item payload as submitted.
type Journal struct {
	ID               string      `json:"_id"`
	Kind             JournalKind `json:"transactionType"`
	Date             time.Time   `json:"date"`
	Month            string      `json:"month"`
	Year             int         `json:"year"`
	LocationID       string      `json:"location,omitempty"`
	AgentID          string      `json:"agent,omitempty"`
	AccountID        string      `json:"cashAccount,omitempty"`
	RefNo            string      `json:"refNo"`
	CheckNo          string      `json:"checkNo,omitempty"`
	Address          string      `json:"address,omitempty"`
	TIN              string      `json:"tin,omitempty"`
	Amount           float64     `json:"amount"`
	Particular       string      `json:"particular"`
	TransactionLines string      `json:"transactionLines,omitempty"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JournalView is a journal with its references populated. Each pointer
// is nil when the referent is missing or soft-deleted.
type JournalView struct {
	Journal
	Location *Location       `json:"locationInfo,omitempty"`
	Agent    *Agent          `json:"agentInfo,omitempty"`
	Account  *ChartOfAccount `json:"cashAccountInfo,omitempty"`
}
