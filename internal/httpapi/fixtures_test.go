package httpapi

import (
	"context"
	"fmt"
	"testing"
	"time"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/auth"
	"systemaide.org/internal/books"
)

const (
	testSecurityToken = "test-security-token"
	testPassword      = "CorrectHorse!1"
)

// memAuth is a map-backed auth.Store for routing tests.
type memAuth struct {
	users *memUsers
	roles *memRoles
	perms *memPerms
}

func newMemAuth() *memAuth {
	return &memAuth{
		users: &memUsers{byID: map[string]*auth.User{}},
		roles: &memRoles{byID: map[string]*auth.Role{}},
		perms: &memPerms{byID: map[string]*auth.Permission{}},
	}
}

func (m *memAuth) Users() auth.UserStore             { return m.users }
func (m *memAuth) Roles() auth.RoleStore             { return m.roles }
func (m *memAuth) Permissions() auth.PermissionStore { return m.perms }

type memUsers struct {
	byID map[string]*auth.User
	seq  int
}

func (m *memUsers) Create(_ context.Context, u *auth.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return auth.ErrConflict
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) Find(_ context.Context, id string) (*auth.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *memUsers) List(_ context.Context) ([]auth.User, error) {
	var out []auth.User
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, id string, upd auth.UserUpdate) (*auth.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.MiddleInitial != nil {
		u.MiddleInitial = *upd.MiddleInitial
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Status != nil {
		u.Status = *upd.Status
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Count(_ context.Context) (int, error) { return len(m.byID), nil }

func (m *memUsers) RecordFailedAttempt(_ context.Context, id string) (int, error) {
	u, ok := m.byID[id]
	if !ok {
		return 0, auth.ErrNotFound
	}
	u.FailedLoginAttempts++
	return u.FailedLoginAttempts, nil
}

func (m *memUsers) MarkSignedIn(_ context.Context, id string) error {
	u, ok := m.byID[id]
	if !ok {
		return auth.ErrNotFound
	}
	u.FailedLoginAttempts = 0
	u.Status = auth.StatusActive
	return nil
}

func (m *memUsers) Block(_ context.Context, id string) error {
	u, ok := m.byID[id]
	if !ok {
		return auth.ErrNotFound
	}
	now := time.Now().UTC()
	u.Status = auth.StatusBlocked
	u.BlockedAt = &now
	return nil
}

func (m *memUsers) Unblock(_ context.Context, id string) error {
	u, ok := m.byID[id]
	if !ok {
		return auth.ErrNotFound
	}
	now := time.Now().UTC()
	u.Status = auth.StatusInactive
	u.FailedLoginAttempts = 0
	u.RestoredAt = &now
	return nil
}

type memRoles struct {
	byID map[string]*auth.Role
	seq  int
}

func (m *memRoles) Create(_ context.Context, r *auth.Role) error {
	for _, existing := range m.byID {
		if existing.Name == r.Name {
			return auth.ErrConflict
		}
	}
	m.seq++
	r.ID = fmt.Sprintf("role-%d", m.seq)
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *memRoles) Find(_ context.Context, id string) (*auth.Role, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRoles) FindByName(_ context.Context, name string) (*auth.Role, error) {
	for _, r := range m.byID {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *memRoles) List(_ context.Context) ([]auth.Role, error) {
	var out []auth.Role
	for _, r := range m.byID {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memRoles) Update(_ context.Context, id string, name *string, permissionIDs []string) (*auth.Role, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	if name != nil {
		r.Name = *name
	}
	if permissionIDs != nil {
		r.Permissions = permissionIDs
	}
	cp := *r
	return &cp, nil
}

func (m *memRoles) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return auth.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memRoles) Count(_ context.Context) (int, error) { return len(m.byID), nil }

type memPerms struct {
	byID map[string]*auth.Permission
	seq  int
}

func (m *memPerms) Create(_ context.Context, p *auth.Permission) error {
	for _, existing := range m.byID {
		if existing.Name == p.Name {
			return auth.ErrConflict
		}
	}
	m.seq++
	p.ID = fmt.Sprintf("perm-%d", m.seq)
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPerms) Find(_ context.Context, id string) (*auth.Permission, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPerms) List(_ context.Context) ([]auth.Permission, error) {
	var out []auth.Permission
	for _, p := range m.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPerms) ListByIDs(_ context.Context, ids []string) ([]auth.Permission, error) {
	var out []auth.Permission
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPerms) Update(_ context.Context, id string, name, description *string) (*auth.Permission, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	cp := *p
	return &cp, nil
}

func (m *memPerms) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return auth.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memPerms) Count(_ context.Context) (int, error) { return len(m.byID), nil }

// memBooks backs the books service with the substores these tests
// exercise. Untouched substores stay nil.
type memBooks struct {
	branches *memBranches
	journals *memJournals
}

func newMemBooks() *memBooks {
	return &memBooks{
		branches: &memBranches{byID: map[string]*books.Branch{}},
		journals: &memJournals{byID: map[string]*books.Journal{}},
	}
}

func (m *memBooks) Companies() books.CompanyStore { return nil }
func (m *memBooks) Branches() books.BranchStore   { return m.branches }
func (m *memBooks) Locations() books.LocationStore {
	return nil
}
func (m *memBooks) Agents() books.AgentStore     { return nil }
func (m *memBooks) Accounts() books.AccountStore { return nil }
func (m *memBooks) Journals() books.JournalStore { return m.journals }

type memBranches struct {
	byID map[string]*books.Branch
	seq  int
}

func (m *memBranches) Create(_ context.Context, b *books.Branch) error {
	m.seq++
	b.ID = fmt.Sprintf("branch-%d", m.seq)
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *memBranches) Find(_ context.Context, id string) (*books.Branch, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, books.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBranches) List(_ context.Context) ([]books.Branch, error) {
	var out []books.Branch
	for _, b := range m.byID {
		if !b.IsDeleted {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBranches) ListDeleted(_ context.Context) ([]books.Branch, error) {
	var out []books.Branch
	for _, b := range m.byID {
		if b.IsDeleted {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBranches) Update(_ context.Context, id string, upd books.BranchUpdate) (*books.Branch, error) {
	b, ok := m.byID[id]
	if !ok || b.IsDeleted {
		return nil, books.ErrNotFound
	}
	if upd.Name != nil {
		b.Name = *upd.Name
	}
	if upd.Address != nil {
		b.Address = *upd.Address
	}
	if upd.TIN != nil {
		b.TIN = *upd.TIN
	}
	if upd.MachineID != nil {
		b.MachineID = *upd.MachineID
	}
	cp := *b
	return &cp, nil
}

func (m *memBranches) SoftDelete(_ context.Context, id string) error {
	b, ok := m.byID[id]
	if !ok || b.IsDeleted {
		return books.ErrNotFound
	}
	now := time.Now().UTC()
	b.IsDeleted = true
	b.DeletedAt = &now
	return nil
}

func (m *memBranches) Restore(_ context.Context, id string) error {
	b, ok := m.byID[id]
	if !ok || !b.IsDeleted {
		return books.ErrNotFound
	}
	now := time.Now().UTC()
	b.IsDeleted = false
	b.RestoredAt = &now
	return nil
}

type memJournals struct {
	byID map[string]*books.Journal
	seq  int
}

func (m *memJournals) Create(_ context.Context, j *books.Journal) error {
	m.seq++
	j.ID = fmt.Sprintf("journal-%d", m.seq)
	j.CreatedAt = time.Now().UTC()
	j.UpdatedAt = j.CreatedAt
	cp := *j
	m.byID[j.ID] = &cp
	return nil
}

func (m *memJournals) Find(_ context.Context, kind books.JournalKind, id string) (*books.Journal, error) {
	j, ok := m.byID[id]
	if !ok || j.Kind != kind {
		return nil, books.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJournals) List(_ context.Context, kind books.JournalKind) ([]books.Journal, error) {
	var out []books.Journal
	for _, j := range m.byID {
		if j.Kind == kind && !j.IsDeleted {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *memJournals) ListDeleted(_ context.Context, kind books.JournalKind) ([]books.Journal, error) {
	var out []books.Journal
	for _, j := range m.byID {
		if j.Kind == kind && j.IsDeleted {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *memJournals) Update(_ context.Context, kind books.JournalKind, id string, upd books.JournalUpdate) (*books.Journal, error) {
	j, ok := m.byID[id]
	if !ok || j.Kind != kind || j.IsDeleted {
		return nil, books.ErrNotFound
	}
	if upd.Date != nil {
		j.Date = *upd.Date
		j.Month = upd.Date.Month().String()
		j.Year = upd.Date.Year()
	}
	if upd.RefNo != nil {
		j.RefNo = *upd.RefNo
	}
	if upd.Amount != nil {
		j.Amount = *upd.Amount
	}
	if upd.Particular != nil {
		j.Particular = *upd.Particular
	}
	cp := *j
	return &cp, nil
}

func (m *memJournals) SoftDelete(_ context.Context, kind books.JournalKind, id string) error {
	j, ok := m.byID[id]
	if !ok || j.Kind != kind || j.IsDeleted {
		return books.ErrNotFound
	}
	now := time.Now().UTC()
	j.IsDeleted = true
	j.DeletedAt = &now
	return nil
}

func (m *memJournals) Restore(_ context.Context, kind books.JournalKind, id string) error {
	j, ok := m.byID[id]
	if !ok || j.Kind != kind || !j.IsDeleted {
		return books.ErrNotFound
	}
	now := time.Now().UTC()
	j.IsDeleted = false
	j.RestoredAt = &now
	return nil
}

// memLogs is a map-backed audit.Store.
type memLogs struct {
	byID map[string]*audit.Entry
	seq  int
}

func newMemLogs() *memLogs { return &memLogs{byID: map[string]*audit.Entry{}} }

func (m *memLogs) Append(_ context.Context, e *audit.Entry) error {
	m.seq++
	e.ID = fmt.Sprintf("log-%d", m.seq)
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	m.byID[e.ID] = &cp
	return nil
}

func (m *memLogs) Find(_ context.Context, id string) (*audit.Entry, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, audit.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memLogs) List(_ context.Context) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range m.byID {
		if !e.IsDeleted {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memLogs) ListDeleted(_ context.Context) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range m.byID {
		if e.IsDeleted {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memLogs) ListByKind(_ context.Context, kind books.JournalKind) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range m.byID {
		if e.Kind == kind && !e.IsDeleted {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memLogs) ListByTransaction(_ context.Context, kind books.JournalKind, transactionID string) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range m.byID {
		if e.Kind == kind && e.TransactionID == transactionID && !e.IsDeleted {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memLogs) SoftDelete(_ context.Context, id string) error {
	e, ok := m.byID[id]
	if !ok || e.IsDeleted {
		return audit.ErrNotFound
	}
	now := time.Now().UTC()
	e.IsDeleted = true
	e.DeletedAt = &now
	return nil
}

func (m *memLogs) Restore(_ context.Context, id string) error {
	e, ok := m.byID[id]
	if !ok || !e.IsDeleted {
		return audit.ErrNotFound
	}
	now := time.Now().UTC()
	e.IsDeleted = false
	e.RestoredAt = &now
	return nil
}

// testEnv bundles the API under test with its backing stores.
type testEnv struct {
	api      *API
	authSt   *memAuth
	booksSt  *memBooks
	logsSt   *memLogs
	svc      *auth.Service
	booksSvc *books.Service
	recorder *audit.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	authSt := newMemAuth()
	booksSt := newMemBooks()
	logsSt := newMemLogs()

	tokens, err := auth.NewTokenIssuer("session-secret", "service-secret", testSecurityToken, auth.WithIssuer("systemaide"))
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	authSvc, err := auth.NewService(authSt, tokens)
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}
	booksSvc, err := books.NewService(booksSt)
	if err != nil {
		t.Fatalf("books.NewService: %v", err)
	}
	recorder, err := audit.NewRecorder(logsSt, booksSt.journals, authSt.users)
	if err != nil {
		t.Fatalf("audit.NewRecorder: %v", err)
	}

	api := New(authSvc, booksSvc, recorder, ReadyProbe{}, Options{Version: "test"})
	return &testEnv{
		api:      api,
		authSt:   authSt,
		booksSt:  booksSt,
		logsSt:   logsSt,
		svc:      authSvc,
		booksSvc: booksSvc,
		recorder: recorder,
	}
}

// serviceToken mints the signed gate token the frontend would carry.
// The raw shared secret is never a valid bearer value by itself.
func (e *testEnv) serviceToken(t *testing.T) string {
	t.Helper()
	token, err := e.svc.Tokens().MintServiceToken(time.Hour)
	if err != nil {
		t.Fatalf("MintServiceToken: %v", err)
	}
	return token
}

// seedUser creates an account with the given role and returns a valid
// session token for it.
func (e *testEnv) seedUser(t *testing.T, email, role string, perms []string) (*auth.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &auth.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       auth.StatusActive,
	}
	if err := e.authSt.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if _, err := e.authSt.roles.FindByName(context.Background(), role); err != nil {
		var ids []string
		for _, name := range perms {
			p := &auth.Permission{Name: name}
			if err := e.authSt.perms.Create(context.Background(), p); err == nil {
				ids = append(ids, p.ID)
			}
		}
		if err := e.authSt.roles.Create(context.Background(), &auth.Role{Name: role, Permissions: ids}); err != nil {
			t.Fatalf("seed role: %v", err)
		}
	}

	token, err := e.svc.Tokens().MintSession(user)
	if err != nil {
		t.Fatalf("MintSession: %v", err)
	}
	return user, token
}
