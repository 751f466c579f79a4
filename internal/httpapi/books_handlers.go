package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/books"
)

type companyRequest struct {
	TIN                      string `json:"tin"`
	TaxClassification        string `json:"taxClassification"`
	RegisteredName           string `json:"registeredName"`
	BusinessAddress          string `json:"businessAddress"`
	RDO                      string `json:"rdo"`
	FiscalYear               string `json:"fiscalYear"`
	BusinessType             string `json:"businessType"`
	LineOfBusiness           string `json:"lineOfBusiness"`
	TelephoneFax             string `json:"telephoneFax"`
	AuthorizedRepresentative string `json:"authorizedRepresentative"`
}

type companyUpdateRequest struct {
	TIN                      *string `json:"tin"`
	TaxClassification        *string `json:"taxClassification"`
	RegisteredName           *string `json:"registeredName"`
	BusinessAddress          *string `json:"businessAddress"`
	RDO                      *string `json:"rdo"`
	FiscalYear               *string `json:"fiscalYear"`
	BusinessType             *string `json:"businessType"`
	LineOfBusiness           *string `json:"lineOfBusiness"`
	TelephoneFax             *string `json:"telephoneFax"`
	AuthorizedRepresentative *string `json:"authorizedRepresentative"`
}

func (a *API) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := a.books.ListCompanies(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, companies)
}

func (a *API) handleLatestCompany(w http.ResponseWriter, r *http.Request) {
	company, err := a.books.LatestCompany(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, company)
}

func (a *API) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	company, err := a.books.CreateCompany(r.Context(), books.CompanyInput{
		TIN:                      req.TIN,
		TaxClassification:        req.TaxClassification,
		RegisteredName:           req.RegisteredName,
		BusinessAddress:          req.BusinessAddress,
		RDO:                      req.RDO,
		FiscalYear:               req.FiscalYear,
		BusinessType:             req.BusinessType,
		LineOfBusiness:           req.LineOfBusiness,
		TelephoneFax:             req.TelephoneFax,
		AuthorizedRepresentative: req.AuthorizedRepresentative,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "company.create", map[string]any{"id": company.ID})
	writeData(w, http.StatusCreated, company)
}

func (a *API) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := a.books.GetCompany(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, company)
}

func (a *API) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	company, err := a.books.UpdateCompany(r.Context(), mux.Vars(r)["id"], books.CompanyUpdate{
		TIN:                      req.TIN,
		TaxClassification:        req.TaxClassification,
		RegisteredName:           req.RegisteredName,
		BusinessAddress:          req.BusinessAddress,
		RDO:                      req.RDO,
		FiscalYear:               req.FiscalYear,
		BusinessType:             req.BusinessType,
		LineOfBusiness:           req.LineOfBusiness,
		TelephoneFax:             req.TelephoneFax,
		AuthorizedRepresentative: req.AuthorizedRepresentative,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "company.update", map[string]any{"id": company.ID})
	writeData(w, http.StatusOK, company)
}

func (a *API) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.DeleteCompany(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "company.delete", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "company deleted")
}

func (a *API) handleRestoreCompany(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.RestoreCompany(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "company.restore", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "company restored")
}

type branchRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	TIN       string `json:"tin"`
	MachineID string `json:"machineId"`
}

type branchUpdateRequest struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	TIN       *string `json:"tin"`
	MachineID *string `json:"machineId"`
}

func (a *API) handleListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := a.books.ListBranches(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, branches)
}

func (a *API) handleListDeletedBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := a.books.ListDeletedBranches(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, branches)
}

func (a *API) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	var req branchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	branch, err := a.books.CreateBranch(r.Context(), books.BranchInput{
		Name:      req.Name,
		Address:   req.Address,
		TIN:       req.TIN,
		MachineID: req.MachineID,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "branch.create", map[string]any{"id": branch.ID})
	writeData(w, http.StatusCreated, branch)
}

func (a *API) handleGetBranch(w http.ResponseWriter, r *http.Request) {
	branch, err := a.books.GetBranch(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, branch)
}

func (a *API) handleUpdateBranch(w http.ResponseWriter, r *http.Request) {
	var req branchUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	branch, err := a.books.UpdateBranch(r.Context(), mux.Vars(r)["id"], books.BranchUpdate{
		Name:      req.Name,
		Address:   req.Address,
		TIN:       req.TIN,
		MachineID: req.MachineID,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "branch.update", map[string]any{"id": branch.ID})
	writeData(w, http.StatusOK, branch)
}

func (a *API) handleDeleteBranch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.DeleteBranch(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "branch.delete", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "branch deleted")
}

func (a *API) handleRestoreBranch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.RestoreBranch(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "branch.restore", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "branch restored")
}

type locationRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	TIN       string `json:"tin"`
	MachineID string `json:"machineId"`
	BranchID  string `json:"branch"`
}

type locationUpdateRequest struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	TIN       *string `json:"tin"`
	MachineID *string `json:"machineId"`
	BranchID  *string `json:"branch"`
}

func (a *API) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := a.books.ListLocations(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, locations)
}

func (a *API) handleListDeletedLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := a.books.ListDeletedLocations(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, locations)
}

func (a *API) handleListLocationsByBranch(w http.ResponseWriter, r *http.Request) {
	locations, err := a.books.ListLocationsByBranch(r.Context(), mux.Vars(r)["branchId"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, locations)
}

func (a *API) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	location, err := a.books.CreateLocation(r.Context(), books.LocationInput{
		Name:      req.Name,
		Address:   req.Address,
		TIN:       req.TIN,
		MachineID: req.MachineID,
		BranchID:  req.BranchID,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "location.create", map[string]any{"id": location.ID})
	writeData(w, http.StatusCreated, location)
}

func (a *API) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	location, err := a.books.GetLocation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, location)
}

func (a *API) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	location, err := a.books.UpdateLocation(r.Context(), mux.Vars(r)["id"], books.LocationUpdate{
		Name:      req.Name,
		Address:   req.Address,
		TIN:       req.TIN,
		MachineID: req.MachineID,
		BranchID:  req.BranchID,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "location.update", map[string]any{"id": location.ID})
	writeData(w, http.StatusOK, location)
}

func (a *API) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.DeleteLocation(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "location.delete", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "location deleted")
}

func (a *API) handleRestoreLocation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.RestoreLocation(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "location.restore", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "location restored")
}

type agentRequest struct {
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
}

type agentUpdateRequest struct {
	AgentCode                *string `json:"agentCode"`
	TIN                      *string `json:"tin"`
	TaxClassification        *string `json:"taxClassification"`
	RegisteredName           *string `json:"registeredName"`
	AgentName                *string `json:"agentName"`
	TradeName                *string `json:"tradeName"`
	AgentType                *string `json:"agentType"`
	RegistrationType         *string `json:"registrationType"`
	AuthorizedRepresentative *string `json:"authorizedRepresentative"`
	Address                  *string `json:"address"`
	Email                    *string `json:"email"`
	Phone                    *string `json:"phone"`
	Fax                      *string `json:"fax"`
	Website                  *string `json:"website"`
}

func (a *API) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := a.books.ListAgents(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, agents)
}

func (a *API) handleListDeletedAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := a.books.ListDeletedAgents(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, agents)
}

func (a *API) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	agent, err := a.books.CreateAgent(r.Context(), books.AgentInput{
		AgentCode:                req.AgentCode,
		TIN:                      req.TIN,
		TaxClassification:        req.TaxClassification,
		RegisteredName:           req.RegisteredName,
		AgentName:                req.AgentName,
		TradeName:                req.TradeName,
		AgentType:                req.AgentType,
		RegistrationType:         req.RegistrationType,
		AuthorizedRepresentative: req.AuthorizedRepresentative,
		Address:                  req.Address,
		Email:                    req.Email,
		Phone:                    req.Phone,
		Fax:                      req.Fax,
		Website:                  req.Website,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "agent.create", map[string]any{"id": agent.ID, "code": agent.AgentCode})
	writeData(w, http.StatusCreated, agent)
}

func (a *API) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := a.books.GetAgent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, agent)
}

func (a *API) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	var req agentUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	agent, err := a.books.UpdateAgent(r.Context(), mux.Vars(r)["id"], books.AgentUpdate{
		AgentCode:                req.AgentCode,
		TIN:                      req.TIN,
		TaxClassification:        req.TaxClassification,
		RegisteredName:           req.RegisteredName,
		AgentName:                req.AgentName,
		TradeName:                req.TradeName,
		AgentType:                req.AgentType,
		RegistrationType:         req.RegistrationType,
		AuthorizedRepresentative: req.AuthorizedRepresentative,
		Address:                  req.Address,
		Email:                    req.Email,
		Phone:                    req.Phone,
		Fax:                      req.Fax,
		Website:                  req.Website,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "agent.update", map[string]any{"id": agent.ID})
	writeData(w, http.StatusOK, agent)
}

func (a *API) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.DeleteAgent(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "agent.delete", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "agent deleted")
}

func (a *API) handleRestoreAgent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.RestoreAgent(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "agent.restore", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "agent restored")
}

type accountRequest struct {
	AccountCode   string `json:"accountCode"`
	AccountName   string `json:"accountName"`
	AccountType   string `json:"accountType"`
	NormalBalance string `json:"normalBalance"`
	ParentID      string `json:"parentAccount"`
}

type accountUpdateRequest struct {
	AccountCode   *string `json:"accountCode"`
	AccountName   *string `json:"accountName"`
	AccountType   *string `json:"accountType"`
	NormalBalance *string `json:"normalBalance"`
	ParentID      *string `json:"parentAccount"`
}

func (a *API) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.books.ListAccounts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, accounts)
}

func (a *API) handleListDeletedAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.books.ListDeletedAccounts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, accounts)
}

func (a *API) handleListParentAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.books.ListParentAccounts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, accounts)
}

// handleListChildAccounts returns every account that has a parent.
func (a *API) handleListChildAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.books.ListAccounts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	children := make([]books.AccountView, 0, len(accounts))
	for _, acc := range accounts {
		if acc.ParentID != nil {
			children = append(children, acc)
		}
	}
	writeData(w, http.StatusOK, children)
}

func (a *API) handleListChildrenOf(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.books.ListChildAccounts(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, accounts)
}

func (a *API) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	a.createAccount(w, r, "")
}

// handleCreateChildAccount creates an account under the parent named in
// the path; a parent in the body is ignored.
func (a *API) handleCreateChildAccount(w http.ResponseWriter, r *http.Request) {
	a.createAccount(w, r, mux.Vars(r)["parentAccountId"])
}

func (a *API) createAccount(w http.ResponseWriter, r *http.Request, parentID string) {
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if parentID != "" {
		req.ParentID = parentID
	}
	account, err := a.books.CreateAccount(r.Context(), books.AccountInput{
		AccountCode:   req.AccountCode,
		AccountName:   req.AccountName,
		AccountType:   req.AccountType,
		NormalBalance: req.NormalBalance,
		ParentID:      req.ParentID,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "account.create", map[string]any{"id": account.ID, "code": account.AccountCode})
	writeData(w, http.StatusCreated, account)
}

func (a *API) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := a.books.GetAccount(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, account)
}

func (a *API) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	account, err := a.books.UpdateAccount(r.Context(), mux.Vars(r)["id"], books.AccountUpdate{
		AccountCode:   req.AccountCode,
		AccountName:   req.AccountName,
		AccountType:   req.AccountType,
		NormalBalance: req.NormalBalance,
		ParentID:      req.ParentID,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "account.update", map[string]any{"id": account.ID})
	writeData(w, http.StatusOK, account)
}

func (a *API) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.DeleteAccount(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "account.delete", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "account deleted")
}

func (a *API) handleRestoreAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.books.RestoreAccount(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "account.restore", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "account restored")
}

// handlePurgeAccounts permanently removes every account, deleted or
// not. The route is double-gated and meant for re-imports.
func (a *API) handlePurgeAccounts(w http.ResponseWriter, r *http.Request) {
	n, err := a.books.PurgeAccounts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "account.purge", map[string]any{"count": n})
	writeData(w, http.StatusOK, map[string]any{"deleted": n})
}
