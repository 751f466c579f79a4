// Package httpapi exposes the bookkeeping services over HTTP. Routes
// mirror the /api surface the frontend speaks; every mutation on a
// journal is also recorded in the transaction log.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/auth"
	"systemaide.org/internal/books"
	"systemaide.org/internal/obs"
)

// ReadyProbe reports whether the backing database answers.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options carries the runtime knobs the HTTP layer needs.
type Options struct {
	Version        string
	AllowedOrigins []string
	// AuthRateBurst and AuthRatePerMin bound sign-in attempts per
	// client IP. Zero values fall back to 10 burst, 30 per minute.
	AuthRateBurst  int
	AuthRatePerMin int
}

// API is the HTTP layer over the auth, books and audit services.
type API struct {
	router     *mux.Router
	auth       *auth.Service
	books      *books.Service
	logs       *audit.Recorder
	readyProbe ReadyProbe
	opts       Options
}

func New(authSvc *auth.Service, booksSvc *books.Service, logs *audit.Recorder, rp ReadyProbe, opts Options) *API {
	if opts.AuthRateBurst <= 0 {
		opts.AuthRateBurst = 10
	}
	if opts.AuthRatePerMin <= 0 {
		opts.AuthRatePerMin = 30
	}
	a := &API{
		router:     mux.NewRouter(),
		auth:       authSvc,
		books:      booksSvc,
		logs:       logs,
		readyProbe: rp,
		opts:       opts,
	}
	a.routes()
	return a
}

func (a *API) routes() {
	r := a.router

	r.HandleFunc("/healthz", a.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", a.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", obs.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Service-token gate, not a user session.
	api.HandleFunc("/connection", a.handleConnection).Methods(http.MethodGet)

	signIn := a.rateLimited(http.HandlerFunc(a.handleSignIn))
	api.Handle("/auth/signin", signIn).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify", a.handleVerify).Methods(http.MethodPost)
	api.HandleFunc("/auth/signout", a.handleSignOut).Methods(http.MethodPost)

	sysadmin := auth.RoleAtLeast(auth.RoleSysadmin)

	api.HandleFunc("/users", a.require(sysadmin, a.handleListUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users", a.require(sysadmin, a.handleCreateUser)).Methods(http.MethodPost)
	api.HandleFunc("/users/block/{id}", a.require(sysadmin, a.handleBlockUser)).Methods(http.MethodPatch)
	api.HandleFunc("/users/unblock/{id}", a.require(sysadmin, a.handleUnblockUser)).Methods(http.MethodPatch)
	api.HandleFunc("/users/{id}", a.require(sysadmin, a.handleGetUser)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", a.require(sysadmin, a.handleUpdateUser)).Methods(http.MethodPatch)

	api.HandleFunc("/roles", a.require(sysadmin, a.handleListRoles)).Methods(http.MethodGet)
	api.HandleFunc("/roles", a.require(sysadmin, a.handleCreateRole)).Methods(http.MethodPost)
	api.HandleFunc("/roles/delete/{id}", a.require(sysadmin, a.handleDeleteRole)).Methods(http.MethodDelete)
	api.HandleFunc("/roles/{id}", a.require(sysadmin, a.handleGetRole)).Methods(http.MethodGet)
	api.HandleFunc("/roles/{id}", a.require(sysadmin, a.handleUpdateRole)).Methods(http.MethodPatch)

	api.HandleFunc("/permissions", a.require(sysadmin, a.handleListPermissions)).Methods(http.MethodGet)
	api.HandleFunc("/permissions", a.require(sysadmin, a.handleCreatePermission)).Methods(http.MethodPost)
	api.HandleFunc("/permissions/delete/{id}", a.require(sysadmin, a.handleDeletePermission)).Methods(http.MethodDelete)
	api.HandleFunc("/permissions/{id}", a.require(sysadmin, a.handleGetPermission)).Methods(http.MethodGet)
	api.HandleFunc("/permissions/{id}", a.require(sysadmin, a.handleUpdatePermission)).Methods(http.MethodPatch)

	api.HandleFunc("/company/latest", a.require(auth.HasPermission(auth.PermViewAllCompanies), a.handleLatestCompany)).Methods(http.MethodGet)
	api.HandleFunc("/company", a.require(auth.HasPermission(auth.PermViewAllCompanies), a.handleListCompanies)).Methods(http.MethodGet)
	api.HandleFunc("/company", a.require(auth.HasPermission(auth.PermCreateCompany), a.handleCreateCompany)).Methods(http.MethodPost)
	api.HandleFunc("/company/delete/{id}", a.require(auth.HasPermission(auth.PermDeleteCompany), a.handleDeleteCompany)).Methods(http.MethodDelete)
	api.HandleFunc("/company/restore/{id}", a.require(sysadmin, a.handleRestoreCompany)).Methods(http.MethodPatch)
	api.HandleFunc("/company/{id}", a.require(auth.HasPermission(auth.PermViewCompanyByID), a.handleGetCompany)).Methods(http.MethodGet)
	api.HandleFunc("/company/{id}", a.require(auth.HasPermission(auth.PermUpdateCompany), a.handleUpdateCompany)).Methods(http.MethodPatch)

	api.HandleFunc("/branch/deleted", a.require(sysadmin, a.handleListDeletedBranches)).Methods(http.MethodGet)
	api.HandleFunc("/branch", a.require(auth.HasPermission(auth.PermViewAllBranches), a.handleListBranches)).Methods(http.MethodGet)
	api.HandleFunc("/branch", a.require(auth.HasPermission(auth.PermCreateBranch), a.handleCreateBranch)).Methods(http.MethodPost)
	api.HandleFunc("/branch/delete/{id}", a.require(auth.HasPermission(auth.PermDeleteBranch), a.handleDeleteBranch)).Methods(http.MethodDelete)
	api.HandleFunc("/branch/restore/{id}", a.require(sysadmin, a.handleRestoreBranch)).Methods(http.MethodPatch)
	api.HandleFunc("/branch/{id}", a.require(auth.HasPermission(auth.PermViewBranchByID), a.handleGetBranch)).Methods(http.MethodGet)
	api.HandleFunc("/branch/{id}", a.require(auth.HasPermission(auth.PermUpdateBranch), a.handleUpdateBranch)).Methods(http.MethodPatch)

	api.HandleFunc("/location/deleted", a.require(sysadmin, a.handleListDeletedLocations)).Methods(http.MethodGet)
	api.HandleFunc("/location/branch/{branchId}", a.require(auth.HasPermission(auth.PermViewAllLocations), a.handleListLocationsByBranch)).Methods(http.MethodGet)
	api.HandleFunc("/location", a.require(auth.HasPermission(auth.PermViewAllLocations), a.handleListLocations)).Methods(http.MethodGet)
	api.HandleFunc("/location", a.require(auth.HasPermission(auth.PermCreateLocation), a.handleCreateLocation)).Methods(http.MethodPost)
	api.HandleFunc("/location/delete/{id}", a.require(auth.HasPermission(auth.PermDeleteLocation), a.handleDeleteLocation)).Methods(http.MethodPatch)
	api.HandleFunc("/location/restore/{id}", a.require(sysadmin, a.handleRestoreLocation)).Methods(http.MethodPatch)
	api.HandleFunc("/location/{id}", a.require(auth.HasPermission(auth.PermViewLocationByID), a.handleGetLocation)).Methods(http.MethodGet)
	api.HandleFunc("/location/{id}", a.require(auth.HasPermission(auth.PermUpdateLocation), a.handleUpdateLocation)).Methods(http.MethodPatch)

	api.HandleFunc("/agent/deleted", a.require(sysadmin, a.handleListDeletedAgents)).Methods(http.MethodGet)
	api.HandleFunc("/agent", a.require(auth.HasPermission(auth.PermViewAllAgents), a.handleListAgents)).Methods(http.MethodGet)
	api.HandleFunc("/agent", a.require(auth.HasPermission(auth.PermCreateAgent), a.handleCreateAgent)).Methods(http.MethodPost)
	api.HandleFunc("/agent/delete/{id}", a.require(auth.HasPermission(auth.PermDeleteAgent), a.handleDeleteAgent)).Methods(http.MethodDelete)
	api.HandleFunc("/agent/restore/{id}", a.require(sysadmin, a.handleRestoreAgent)).Methods(http.MethodPatch)
	api.HandleFunc("/agent/{id}", a.require(auth.HasPermission(auth.PermViewAgentByID), a.handleGetAgent)).Methods(http.MethodGet)
	api.HandleFunc("/agent/{id}", a.require(auth.HasPermission(auth.PermUpdateAgent), a.handleUpdateAgent)).Methods(http.MethodPatch)

	chart := "/chart-of-account"
	api.HandleFunc(chart+"/accounts/parent", a.require(auth.HasPermission(auth.PermViewAllAccounts), a.handleListParentAccounts)).Methods(http.MethodGet)
	api.HandleFunc(chart+"/accounts/child", a.require(auth.HasPermission(auth.PermViewAllAccounts), a.handleListChildAccounts)).Methods(http.MethodGet)
	api.HandleFunc(chart+"/accounts/{id}/child", a.require(auth.HasPermission(auth.PermViewAllAccounts), a.handleListChildrenOf)).Methods(http.MethodGet)
	api.HandleFunc(chart+"/deleted", a.require(auth.HasPermission(auth.PermRestoreAccount), a.handleListDeletedAccounts)).Methods(http.MethodGet)
	api.HandleFunc(chart+"/{parentAccountId}/child", a.require(auth.HasPermission(auth.PermCreateAccount), a.handleCreateChildAccount)).Methods(http.MethodPost)
	api.HandleFunc(chart, a.require(auth.HasPermission(auth.PermViewAllAccounts), a.handleListAccounts)).Methods(http.MethodGet)
	api.HandleFunc(chart, a.require(auth.HasPermission(auth.PermCreateAccount), a.handleCreateAccount)).Methods(http.MethodPost)
	api.HandleFunc(chart+"/delete/all", a.require(auth.AllOf(sysadmin, auth.HasPermission(auth.PermDeleteAccount)), a.handlePurgeAccounts)).Methods(http.MethodDelete)
	api.HandleFunc(chart+"/delete/{id}", a.require(auth.HasPermission(auth.PermDeleteAccount), a.handleDeleteAccount)).Methods(http.MethodPatch)
	api.HandleFunc(chart+"/restore/{id}", a.require(auth.HasPermission(auth.PermRestoreAccount), a.handleRestoreAccount)).Methods(http.MethodPatch)
	api.HandleFunc(chart+"/{id}", a.require(auth.HasPermission(auth.PermViewAccountByID), a.handleGetAccount)).Methods(http.MethodGet)
	api.HandleFunc(chart+"/{id}", a.require(auth.HasPermission(auth.PermUpdateAccount), a.handleUpdateAccount)).Methods(http.MethodPatch)

	for prefix, kind := range journalPrefixes {
		a.journalRoutes(api, prefix, kind)
	}

	logp := "/transaction-log"
	api.HandleFunc(logp+"/deleted", a.require(auth.AllOf(sysadmin, auth.HasPermission(auth.PermRestoreTransactionLog)), a.handleListDeletedLogs)).Methods(http.MethodGet)
	api.HandleFunc(logp, a.require(auth.HasPermission(auth.PermViewTransactionLog), a.handleListLogs)).Methods(http.MethodGet)
	api.HandleFunc(logp, a.require(auth.HasPermission(auth.PermCreateTransactionLog), a.handleCreateLog)).Methods(http.MethodPost)
	api.HandleFunc(logp+"/transaction/{transactionType}", a.require(auth.HasPermission(auth.PermViewTransactionLog), a.handleListLogsByKind)).Methods(http.MethodGet)
	api.HandleFunc(logp+"/transaction/{transactionType}/{transactionId}", a.require(auth.HasPermission(auth.PermViewTransactionLog), a.handleListLogsByTransaction)).Methods(http.MethodGet)
	api.HandleFunc(logp+"/restore/{id}", a.require(auth.AllOf(sysadmin, auth.HasPermission(auth.PermRestoreTransactionLog)), a.handleRestoreLog)).Methods(http.MethodPatch)
	api.HandleFunc(logp+"/{id}", a.require(auth.HasPermission(auth.PermViewTransactionLogByID), a.handleGetLog)).Methods(http.MethodGet)
	api.HandleFunc(logp+"/{id}", a.require(auth.AllOf(sysadmin, auth.HasPermission(auth.PermDeleteTransactionLog)), a.handleDeleteLog)).Methods(http.MethodDelete)
}

// journalPrefixes maps each mounted route prefix to its book.
var journalPrefixes = map[string]books.JournalKind{
	"/cash-disbursement":   books.KindCashDisbursement,
	"/cash-receipts":       books.KindCashReceipts,
	"/sales-on-account":    books.KindSalesOnAccount,
	"/purchase-on-account": books.KindPurchaseOnAccount,
	"/general-journal":     books.KindGeneralJournal,
}

func (a *API) journalRoutes(api *mux.Router, prefix string, kind books.JournalKind) {
	api.HandleFunc(prefix+"/deleted", a.require(auth.HasPermission(auth.PermRestoreTransaction), a.journalHandler(kind, a.handleListDeletedJournals))).Methods(http.MethodGet)
	api.HandleFunc(prefix, a.require(auth.HasPermission(auth.PermViewAllTransactions), a.journalHandler(kind, a.handleListJournals))).Methods(http.MethodGet)
	api.HandleFunc(prefix, a.require(auth.HasPermission(auth.PermCreateTransaction), a.journalHandler(kind, a.handleCreateJournal))).Methods(http.MethodPost)
	api.HandleFunc(prefix+"/delete/{id}", a.require(auth.HasPermission(auth.PermDeleteTransaction), a.journalHandler(kind, a.handleDeleteJournal))).Methods(http.MethodDelete)
	api.HandleFunc(prefix+"/restore/{id}", a.require(auth.HasPermission(auth.PermRestoreTransaction), a.journalHandler(kind, a.handleRestoreJournal))).Methods(http.MethodPatch)
	api.HandleFunc(prefix+"/{id}", a.require(auth.HasPermission(auth.PermViewTransactionByID), a.journalHandler(kind, a.handleGetJournal))).Methods(http.MethodGet)
	api.HandleFunc(prefix+"/{id}", a.require(auth.HasPermission(auth.PermUpdateTransaction), a.journalHandler(kind, a.handleUpdateJournal))).Methods(http.MethodPatch)
}

type journalHandlerFunc func(w http.ResponseWriter, r *http.Request, kind books.JournalKind)

func (a *API) journalHandler(kind books.JournalKind, h journalHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r, kind)
	}
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   a.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	var h http.Handler = a.router
	h = a.withSession(h)
	h = MaxBodyBytes(h, 1<<20)
	h = c.Handler(h)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "systemaide-api",
		"version": a.opts.Version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// handleConnection answers the frontend's reachability probe. It is
// gated on the shared service token, not a user session.
func (a *API) handleConnection(w http.ResponseWriter, r *http.Request) {
	if err := a.verifyServiceToken(r); err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid bearer token")
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"status": "connected",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
