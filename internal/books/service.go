package books

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service wraps the stores with validation, uniqueness pre-checks and
// populated reads. Lifecycle fields are never writable by callers; the
// stores flip them only through SoftDelete and Restore.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("books: store is required")
	}
	return &Service{store: store}, nil
}

// CompanyInput carries a company profile payload.
type CompanyInput struct {
	TIN                      string
	TaxClassification        string
	RegisteredName           string
	BusinessAddress          string
	RDO                      string
	FiscalYear               string
	BusinessType             string
	LineOfBusiness           string
	TelephoneFax             string
	AuthorizedRepresentative string
}

// CreateCompany validates and stores a company profile.
func (s *Service) CreateCompany(ctx context.Context, in CompanyInput) (*CompanyInfo, error) {
	in.TIN = strings.TrimSpace(in.TIN)
	in.RegisteredName = strings.TrimSpace(in.RegisteredName)
	if in.TIN == "" || in.RegisteredName == "" {
		return nil, fmt.Errorf("%w: tin and registered name are required", ErrInvalidInput)
	}
	if err := s.checkCompanyTIN(ctx, in.TIN, ""); err != nil {
		return nil, err
	}
	company := &CompanyInfo{
		TIN:                      in.TIN,
		TaxClassification:        strings.TrimSpace(in.TaxClassification),
		RegisteredName:           in.RegisteredName,
		BusinessAddress:          strings.TrimSpace(in.BusinessAddress),
		RDO:                      strings.TrimSpace(in.RDO),
		FiscalYear:               strings.TrimSpace(in.FiscalYear),
		BusinessType:             strings.TrimSpace(in.BusinessType),
		LineOfBusiness:           strings.TrimSpace(in.LineOfBusiness),
		TelephoneFax:             strings.TrimSpace(in.TelephoneFax),
		AuthorizedRepresentative: strings.TrimSpace(in.AuthorizedRepresentative),
	}
	if err := s.store.Companies().Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// UpdateCompany applies a partial update.
func (s *Service) UpdateCompany(ctx context.Context, id string, upd CompanyUpdate) (*CompanyInfo, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: company id is required", ErrInvalidInput)
	}
	if upd.TIN != nil {
		tin := strings.TrimSpace(*upd.TIN)
		if tin == "" {
			return nil, fmt.Errorf("%w: tin is required", ErrInvalidInput)
		}
		if err := s.checkCompanyTIN(ctx, tin, id); err != nil {
			return nil, err
		}
		upd.TIN = &tin
	}
	return s.store.Companies().Update(ctx, id, upd)
}

// LatestCompany returns the effective company profile.
func (s *Service) LatestCompany(ctx context.Context) (*CompanyInfo, error) {
	return s.store.Companies().Latest(ctx)
}

// ListCompanies returns every active company profile.
func (s *Service) ListCompanies(ctx context.Context) ([]CompanyInfo, error) {
	return s.store.Companies().List(ctx)
}

// GetCompany returns an active company profile by id.
func (s *Service) GetCompany(ctx context.Context, id string) (*CompanyInfo, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: company id is required", ErrInvalidInput)
	}
	return s.store.Companies().Find(ctx, id)
}

// DeleteCompany soft-deletes a company profile.
func (s *Service) DeleteCompany(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: company id is required", ErrInvalidInput)
	}
	return s.store.Companies().SoftDelete(ctx, id)
}

// RestoreCompany brings a soft-deleted company profile back.
func (s *Service) RestoreCompany(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: company id is required", ErrInvalidInput)
	}
	return s.store.Companies().Restore(ctx, id)
}

func (s *Service) checkCompanyTIN(ctx context.Context, tin, excludeID string) error {
	companies, err := s.store.Companies().List(ctx)
	if err != nil {
		return err
	}
	for _, c := range companies {
		if c.ID != excludeID && c.TIN == tin {
			return fmt.Errorf("%w: company tin %s already registered", ErrConflict, tin)
		}
	}
	return nil
}

// BranchInput carries a branch payload.
type BranchInput struct {
	Name      string
	Address   string
	TIN       string
	MachineID string
}

// CreateBranch validates and stores a branch.
func (s *Service) CreateBranch(ctx context.Context, in BranchInput) (*Branch, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: branch name is required", ErrInvalidInput)
	}
	in.TIN = strings.TrimSpace(in.TIN)
	if in.TIN != "" {
		if err := s.checkBranchTIN(ctx, in.TIN, ""); err != nil {
			return nil, err
		}
	}
	branch := &Branch{
		Name:      in.Name,
		Address:   strings.TrimSpace(in.Address),
		TIN:       in.TIN,
		MachineID: strings.TrimSpace(in.MachineID),
	}
	if err := s.store.Branches().Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// UpdateBranch applies a partial update with a TIN conflict pre-check.
func (s *Service) UpdateBranch(ctx context.Context, id string, upd BranchUpdate) (*Branch, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: branch id is required", ErrInvalidInput)
	}
	if upd.TIN != nil {
		tin := strings.TrimSpace(*upd.TIN)
		if tin != "" {
			if err := s.checkBranchTIN(ctx, tin, id); err != nil {
				return nil, err
			}
		}
		upd.TIN = &tin
	}
	return s.store.Branches().Update(ctx, id, upd)
}

// ListBranches returns every active branch.
func (s *Service) ListBranches(ctx context.Context) ([]Branch, error) {
	return s.store.Branches().List(ctx)
}

// ListDeletedBranches returns soft-deleted branches.
func (s *Service) ListDeletedBranches(ctx context.Context) ([]Branch, error) {
	return s.store.Branches().ListDeleted(ctx)
}

// GetBranch returns an active branch by id.
func (s *Service) GetBranch(ctx context.Context, id string) (*Branch, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: branch id is required", ErrInvalidInput)
	}
	return s.store.Branches().Find(ctx, id)
}

// DeleteBranch soft-deletes a branch.
func (s *Service) DeleteBranch(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: branch id is required", ErrInvalidInput)
	}
	return s.store.Branches().SoftDelete(ctx, id)
}

// RestoreBranch brings a soft-deleted branch back.
func (s *Service) RestoreBranch(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: branch id is required", ErrInvalidInput)
	}
	return s.store.Branches().Restore(ctx, id)
}

func (s *Service) checkBranchTIN(ctx context.Context, tin, excludeID string) error {
	branches, err := s.store.Branches().List(ctx)
	if err != nil {
		return err
	}
	for _, b := range branches {
		if b.ID != excludeID && b.TIN == tin {
			return fmt.Errorf("%w: branch tin %s already registered", ErrConflict, tin)
		}
	}
	return nil
}

// LocationInput carries a location payload.
type LocationInput struct {
	Name      string
	Address   string
	TIN       string
	MachineID string
	BranchID  string
}

// CreateLocation validates the branch reference and stores a location.
func (s *Service) CreateLocation(ctx context.Context, in LocationInput) (*Location, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: location name is required", ErrInvalidInput)
	}
	in.BranchID = strings.TrimSpace(in.BranchID)
	if in.BranchID != "" {
		if _, err := s.store.Branches().Find(ctx, in.BranchID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown branch %s", ErrInvalidInput, in.BranchID)
			}
			return nil, err
		}
	}
	loc := &Location{
		Name:      in.Name,
		Address:   strings.TrimSpace(in.Address),
		TIN:       strings.TrimSpace(in.TIN),
		MachineID: strings.TrimSpace(in.MachineID),
		BranchID:  in.BranchID,
	}
	if err := s.store.Locations().Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// UpdateLocation applies a partial update, validating a rewritten
// branch reference.
func (s *Service) UpdateLocation(ctx context.Context, id string, upd LocationUpdate) (*LocationView, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: location id is required", ErrInvalidInput)
	}
	if upd.BranchID != nil {
		branchID := strings.TrimSpace(*upd.BranchID)
		if branchID != "" {
			if _, err := s.store.Branches().Find(ctx, branchID); err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil, fmt.Errorf("%w: unknown branch %s", ErrInvalidInput, branchID)
				}
				return nil, err
			}
		}
		upd.BranchID = &branchID
	}
	loc, err := s.store.Locations().Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return s.locationView(ctx, loc), nil
}

// ListLocations returns active locations with branches populated.
func (s *Service) ListLocations(ctx context.Context) ([]LocationView, error) {
	locs, err := s.store.Locations().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]LocationView, 0, len(locs))
	for i := range locs {
		views = append(views, *s.locationView(ctx, &locs[i]))
	}
	return views, nil
}

// ListDeletedLocations returns soft-deleted locations.
func (s *Service) ListDeletedLocations(ctx context.Context) ([]Location, error) {
	return s.store.Locations().ListDeleted(ctx)
}

// ListLocationsByBranch returns active locations under a branch.
func (s *Service) ListLocationsByBranch(ctx context.Context, branchID string) ([]Location, error) {
	if branchID = strings.TrimSpace(branchID); branchID == "" {
		return nil, fmt.Errorf("%w: branch id is required", ErrInvalidInput)
	}
	return s.store.Locations().ListByBranch(ctx, branchID)
}

// GetLocation returns an active location with its branch populated.
func (s *Service) GetLocation(ctx context.Context, id string) (*LocationView, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: location id is required", ErrInvalidInput)
	}
	loc, err := s.store.Locations().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.locationView(ctx, loc), nil
}

// DeleteLocation soft-deletes a location.
func (s *Service) DeleteLocation(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: location id is required", ErrInvalidInput)
	}
	return s.store.Locations().SoftDelete(ctx, id)
}

// RestoreLocation brings a soft-deleted location back.
func (s *Service) RestoreLocation(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: location id is required", ErrInvalidInput)
	}
	return s.store.Locations().Restore(ctx, id)
}

// locationView populates the branch reference. A missing or deleted
// branch reads as nil, never as an error.
func (s *Service) locationView(ctx context.Context, loc *Location) *LocationView {
	view := &LocationView{Location: *loc}
	if loc.BranchID != "" {
		if branch, err := s.store.Branches().Find(ctx, loc.BranchID); err == nil {
			view.Branch = branch
		}
	}
	return view
}

// AgentInput carries an agent payload.
type AgentInput struct {
	AgentCode                string
	TIN                      string
	TaxClassification        string
	RegisteredName           string
	AgentName                string
	TradeName                string
	AgentType                string
	RegistrationType         string
	AuthorizedRepresentative string
	Address                  string
	Email                    string
	Phone                    string
	Fax                      string
	Website                  string
}

// CreateAgent validates and stores an agent. Agent codes are unique
// among active agents.
func (s *Service) CreateAgent(ctx context.Context, in AgentInput) (*Agent, error) {
	in.AgentCode = strings.TrimSpace(in.AgentCode)
	in.AgentName = strings.TrimSpace(in.AgentName)
	if in.AgentCode == "" || in.AgentName == "" {
		return nil, fmt.Errorf("%w: agent code and name are required", ErrInvalidInput)
	}
	if _, err := s.store.Agents().FindByCode(ctx, in.AgentCode); err == nil {
		return nil, fmt.Errorf("%w: agent code %s already registered", ErrConflict, in.AgentCode)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	agent := &Agent{
		AgentCode:                in.AgentCode,
		TIN:                      strings.TrimSpace(in.TIN),
		TaxClassification:        strings.TrimSpace(in.TaxClassification),
		RegisteredName:           strings.TrimSpace(in.RegisteredName),
		AgentName:                in.AgentName,
		TradeName:                strings.TrimSpace(in.TradeName),
		AgentType:                strings.TrimSpace(in.AgentType),
		RegistrationType:         strings.TrimSpace(in.RegistrationType),
		AuthorizedRepresentative: strings.TrimSpace(in.AuthorizedRepresentative),
		Address:                  strings.TrimSpace(in.Address),
		Email:                    strings.TrimSpace(strings.ToLower(in.Email)),
		Phone:                    strings.TrimSpace(in.Phone),
		Fax:                      strings.TrimSpace(in.Fax),
		Website:                  strings.TrimSpace(in.Website),
	}
	if err := s.store.Agents().Create(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// UpdateAgent applies a partial update with an agent-code conflict
// pre-check.
func (s *Service) UpdateAgent(ctx context.Context, id string, upd AgentUpdate) (*Agent, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: agent id is required", ErrInvalidInput)
	}
	if upd.AgentCode != nil {
		code := strings.TrimSpace(*upd.AgentCode)
		if code == "" {
			return nil, fmt.Errorf("%w: agent code is required", ErrInvalidInput)
		}
		if existing, err := s.store.Agents().FindByCode(ctx, code); err == nil {
			if existing.ID != id {
				return nil, fmt.Errorf("%w: agent code %s already registered", ErrConflict, code)
			}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		upd.AgentCode = &code
	}
	return s.store.Agents().Update(ctx, id, upd)
}

// ListAgents returns every active agent.
func (s *Service) ListAgents(ctx context.Context) ([]Agent, error) {
	return s.store.Agents().List(ctx)
}

// ListDeletedAgents returns soft-deleted agents.
func (s *Service) ListDeletedAgents(ctx context.Context) ([]Agent, error) {
	return s.store.Agents().ListDeleted(ctx)
}

// GetAgent returns an active agent by id.
func (s *Service) GetAgent(ctx context.Context, id string) (*Agent, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: agent id is required", ErrInvalidInput)
	}
	return s.store.Agents().Find(ctx, id)
}

// DeleteAgent soft-deletes an agent.
func (s *Service) DeleteAgent(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: agent id is required", ErrInvalidInput)
	}
	return s.store.Agents().SoftDelete(ctx, id)
}

// RestoreAgent brings a soft-deleted agent back.
func (s *Service) RestoreAgent(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: agent id is required", ErrInvalidInput)
	}
	return s.store.Agents().Restore(ctx, id)
}

// AccountInput carries a chart-of-account payload.
type AccountInput struct {
	AccountCode   string
	AccountName   string
	AccountType   string
	NormalBalance string
	ParentID      string
}

// CreateAccount validates code uniqueness and the parent reference,
// then stores the account.
func (s *Service) CreateAccount(ctx context.Context, in AccountInput) (*ChartOfAccount, error) {
	in.AccountCode = strings.TrimSpace(in.AccountCode)
	in.AccountName = strings.TrimSpace(in.AccountName)
	if in.AccountCode == "" || in.AccountName == "" {
		return nil, fmt.Errorf("%w: account code and name are required", ErrInvalidInput)
	}
	if _, err := s.store.Accounts().FindByCode(ctx, in.AccountCode); err == nil {
		return nil, fmt.Errorf("%w: account code %s already registered", ErrConflict, in.AccountCode)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	account := &ChartOfAccount{
		AccountCode:   in.AccountCode,
		AccountName:   in.AccountName,
		AccountType:   strings.TrimSpace(in.AccountType),
		NormalBalance: strings.TrimSpace(in.NormalBalance),
	}
	if parentID := strings.TrimSpace(in.ParentID); parentID != "" {
		if _, err := s.store.Accounts().Find(ctx, parentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown parent account %s", ErrInvalidInput, parentID)
			}
			return nil, err
		}
		account.ParentID = &parentID
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateAccount applies a partial update. A rewritten parent must be an
// existing active account and never the account itself; an empty parent
// detaches the account to top level.
func (s *Service) UpdateAccount(ctx context.Context, id string, upd AccountUpdate) (*AccountView, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if upd.AccountCode != nil {
		code := strings.TrimSpace(*upd.AccountCode)
		if code == "" {
			return nil, fmt.Errorf("%w: account code is required", ErrInvalidInput)
		}
		if existing, err := s.store.Accounts().FindByCode(ctx, code); err == nil {
			if existing.ID != id {
				return nil, fmt.Errorf("%w: account code %s already registered", ErrConflict, code)
			}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		upd.AccountCode = &code
	}
	if upd.ParentID != nil {
		parentID := strings.TrimSpace(*upd.ParentID)
		if parentID != "" {
			if parentID == id {
				return nil, fmt.Errorf("%w: account cannot be its own parent", ErrInvalidInput)
			}
			if _, err := s.store.Accounts().Find(ctx, parentID); err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil, fmt.Errorf("%w: unknown parent account %s", ErrInvalidInput, parentID)
				}
				return nil, err
			}
		}
		upd.ParentID = &parentID
	}
	account, err := s.store.Accounts().Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return s.accountView(ctx, account), nil
}

// ListAccounts returns active accounts with parents populated.
func (s *Service) ListAccounts(ctx context.Context) ([]AccountView, error) {
	accounts, err := s.store.Accounts().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]AccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, *s.accountView(ctx, &accounts[i]))
	}
	return views, nil
}

// ListDeletedAccounts returns soft-deleted accounts.
func (s *Service) ListDeletedAccounts(ctx context.Context) ([]ChartOfAccount, error) {
	return s.store.Accounts().ListDeleted(ctx)
}

// ListParentAccounts returns active top-level accounts.
func (s *Service) ListParentAccounts(ctx context.Context) ([]ChartOfAccount, error) {
	return s.store.Accounts().ListParents(ctx)
}

// ListChildAccounts returns the active children of an account.
func (s *Service) ListChildAccounts(ctx context.Context, parentID string) ([]ChartOfAccount, error) {
	if parentID = strings.TrimSpace(parentID); parentID == "" {
		return nil, fmt.Errorf("%w: parent account id is required", ErrInvalidInput)
	}
	return s.store.Accounts().ListChildren(ctx, parentID)
}

// GetAccount returns an active account with its parent populated.
func (s *Service) GetAccount(ctx context.Context, id string) (*AccountView, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	account, err := s.store.Accounts().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.accountView(ctx, account), nil
}

// DeleteAccount soft-deletes an account. Children stay active and read
// with a nil parent until the account is restored.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	return s.store.Accounts().SoftDelete(ctx, id)
}

// RestoreAccount brings a soft-deleted account back.
func (s *Service) RestoreAccount(ctx context.Context, id string) error {
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	return s.store.Accounts().Restore(ctx, id)
}

// PurgeAccounts hard-deletes the whole chart of accounts and returns
// the number of rows removed.
func (s *Service) PurgeAccounts(ctx context.Context) (int, error) {
	return s.store.Accounts().PurgeAll(ctx)
}

// accountView populates the parent reference. A missing or deleted
// parent reads as nil.
func (s *Service) accountView(ctx context.Context, account *ChartOfAccount) *AccountView {
	view := &AccountView{ChartOfAccount: *account}
	if account.ParentID != nil && *account.ParentID != "" {
		if parent, err := s.store.Accounts().Find(ctx, *account.ParentID); err == nil {
			view.Parent = parent
		}
	}
	return view
}

// JournalInput carries a journal row payload.
type JournalInput struct {
	Date             time.Time
	LocationID       string
	AgentID          string
	AccountID        string
	RefNo            string
	CheckNo          string
	Address          string
	TIN              string
	Amount           float64
	Particular       string
	TransactionLines string
}

// CreateJournal validates the kind and every reference, derives month
// and year from the date, and stores the row.
func (s *Service) CreateJournal(ctx context.Context, kind JournalKind, in JournalInput) (*Journal, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown journal kind %s", ErrInvalidInput, kind)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: transaction date is required", ErrInvalidInput)
	}
	if err := s.checkJournalRefs(ctx, in.LocationID, in.AgentID, in.AccountID); err != nil {
		return nil, err
	}
	journal := &Journal{
		Kind:             kind,
		Date:             in.Date,
		Month:            in.Date.Month().String(),
		Year:             in.Date.Year(),
		LocationID:       strings.TrimSpace(in.LocationID),
		AgentID:          strings.TrimSpace(in.AgentID),
		AccountID:        strings.TrimSpace(in.AccountID),
		RefNo:            strings.TrimSpace(in.RefNo),
		CheckNo:          strings.TrimSpace(in.CheckNo),
		Address:          strings.TrimSpace(in.Address),
		TIN:              strings.TrimSpace(in.TIN),
		Amount:           in.Amount,
		Particular:       strings.TrimSpace(in.Particular),
		TransactionLines: in.TransactionLines,
	}
	if err := s.store.Journals().Create(ctx, journal); err != nil {
		return nil, err
	}
	return journal, nil
}

// UpdateJournal applies a partial update to an active row of the given
// kind. A rewritten date re-derives month and year at the store.
func (s *Service) UpdateJournal(ctx context.Context, kind JournalKind, id string, upd JournalUpdate) (*JournalView, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown journal kind %s", ErrInvalidInput, kind)
	}
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	if upd.Date != nil && upd.Date.IsZero() {
		return nil, fmt.Errorf("%w: transaction date is required", ErrInvalidInput)
	}
	var locID, agentID, accountID string
	if upd.LocationID != nil {
		locID = *upd.LocationID
	}
	if upd.AgentID != nil {
		agentID = *upd.AgentID
	}
	if upd.AccountID != nil {
		accountID = *upd.AccountID
	}
	if err := s.checkJournalRefs(ctx, locID, agentID, accountID); err != nil {
		return nil, err
	}
	journal, err := s.store.Journals().Update(ctx, kind, id, upd)
	if err != nil {
		return nil, err
	}
	return s.journalView(ctx, journal), nil
}

// ListJournals returns active rows of one kind with references
// populated.
func (s *Service) ListJournals(ctx context.Context, kind JournalKind) ([]JournalView, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown journal kind %s", ErrInvalidInput, kind)
	}
	journals, err := s.store.Journals().List(ctx, kind)
	if err != nil {
		return nil, err
	}
	views := make([]JournalView, 0, len(journals))
	for i := range journals {
		views = append(views, *s.journalView(ctx, &journals[i]))
	}
	return views, nil
}

// ListDeletedJournals returns soft-deleted rows of one kind.
func (s *Service) ListDeletedJournals(ctx context.Context, kind JournalKind) ([]Journal, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown journal kind %s", ErrInvalidInput, kind)
	}
	return s.store.Journals().ListDeleted(ctx, kind)
}

// GetJournal returns one active row of one kind with references
// populated.
func (s *Service) GetJournal(ctx context.Context, kind JournalKind, id string) (*JournalView, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown journal kind %s", ErrInvalidInput, kind)
	}
	if id = strings.TrimSpace(id); id == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	journal, err := s.store.Journals().Find(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.journalView(ctx, journal), nil
}

// DeleteJournal soft-deletes a row of one kind.
func (s *Service) DeleteJournal(ctx context.Context, kind JournalKind, id string) error {
	if !ValidKind(kind) {
		return fmt.Errorf("%w: unknown journal kind %s", ErrInvalidInput, kind)
	}
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	return s.store.Journals().SoftDelete(ctx, kind, id)
}

// RestoreJournal brings a soft-deleted row of one kind back.
func (s *Service) RestoreJournal(ctx context.Context, kind JournalKind, id string) error {
	if !ValidKind(kind) {
		return fmt.Errorf("%w: unknown journal kind %s", ErrInvalidInput, kind)
	}
	if id = strings.TrimSpace(id); id == "" {
		return fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	return s.store.Journals().Restore(ctx, kind, id)
}

func (s *Service) checkJournalRefs(ctx context.Context, locationID, agentID, accountID string) error {
	if locationID = strings.TrimSpace(locationID); locationID != "" {
		if _, err := s.store.Locations().Find(ctx, locationID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: unknown location %s", ErrInvalidInput, locationID)
			}
			return err
		}
	}
	if agentID = strings.TrimSpace(agentID); agentID != "" {
		if _, err := s.store.Agents().Find(ctx, agentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: unknown agent %s", ErrInvalidInput, agentID)
			}
			return err
		}
	}
	if accountID = strings.TrimSpace(accountID); accountID != "" {
		if _, err := s.store.Accounts().Find(ctx, accountID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: unknown cash account %s", ErrInvalidInput, accountID)
			}
			return err
		}
	}
	return nil
}

// journalView populates location, agent and cash-account references.
// Missing or deleted referents read as nil.
func (s *Service) journalView(ctx context.Context, journal *Journal) *JournalView {
	view := &JournalView{Journal: *journal}
	if journal.LocationID != "" {
		if loc, err := s.store.Locations().Find(ctx, journal.LocationID); err == nil {
			view.Location = loc
		}
	}
	if journal.AgentID != "" {
		if agent, err := s.store.Agents().Find(ctx, journal.AgentID); err == nil {
			view.Agent = agent
		}
	}
	if journal.AccountID != "" {
		if account, err := s.store.Accounts().Find(ctx, journal.AccountID); err == nil {
			view.Account = account
		}
	}
	return view
}
