package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"systemaide.org/internal/books"
	"systemaide.org/internal/ids"
)

type companyStore struct{ s *Store }

const companyColumns = `id, tin, tax_classification, registered_name, business_address, rdo, fiscal_year,
	business_type, line_of_business, telephone_fax, authorized_representative,
	is_deleted, deleted_at, restored_at, created_at, updated_at`

func (st *companyStore) scan(row rowScanner) (*books.CompanyInfo, error) {
	var (
		c         books.CompanyInfo
		sealed    string
		deletedAt sql.NullTime
		restored  sql.NullTime
	)
	err := row.Scan(&c.ID, &sealed, &c.TaxClassification, &c.RegisteredName, &c.BusinessAddress,
		&c.RDO, &c.FiscalYear, &c.BusinessType, &c.LineOfBusiness, &c.TelephoneFax,
		&c.AuthorizedRepresentative, &c.IsDeleted, &deletedAt, &restored, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, books.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.TIN = st.s.decrypt(sealed)
	c.DeletedAt = timeOrNil(deletedAt)
	c.RestoredAt = timeOrNil(restored)
	return &c, nil
}

func (st *companyStore) Create(ctx context.Context, c *books.CompanyInfo) error {
	sealed, err := st.s.encrypt(c.TIN)
	if err != nil {
		return err
	}
	c.ID = ids.New()
	row := st.s.db.QueryRowContext(ctx, `
		insert into companies (id, tin, tax_classification, registered_name, business_address, rdo,
			fiscal_year, business_type, line_of_business, telephone_fax, authorized_representative)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		returning created_at, updated_at
	`, c.ID, sealed, c.TaxClassification, c.RegisteredName, c.BusinessAddress, c.RDO,
		c.FiscalYear, c.BusinessType, c.LineOfBusiness, c.TelephoneFax, c.AuthorizedRepresentative)
	return row.Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (st *companyStore) Find(ctx context.Context, id string) (*books.CompanyInfo, error) {
	return st.scan(st.s.db.QueryRowContext(ctx,
		`select `+companyColumns+` from companies where id = $1 and not is_deleted`, id))
}

func (st *companyStore) Latest(ctx context.Context) (*books.CompanyInfo, error) {
	return st.scan(st.s.db.QueryRowContext(ctx,
		`select `+companyColumns+` from companies where not is_deleted order by created_at desc limit 1`))
}

func (st *companyStore) List(ctx context.Context) ([]books.CompanyInfo, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+companyColumns+` from companies where not is_deleted order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []books.CompanyInfo
	for rows.Next() {
		c, err := st.scan(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return companies, nil
}

func (st *companyStore) Update(ctx context.Context, id string, upd books.CompanyUpdate) (*books.CompanyInfo, error) {
	b := newSetBuilder()
	if upd.TIN != nil {
		sealed, err := st.s.encrypt(*upd.TIN)
		if err != nil {
			return nil, err
		}
		b.add("tin", sealed)
	}
	b.addString("tax_classification", upd.TaxClassification)
	b.addString("registered_name", upd.RegisteredName)
	b.addString("business_address", upd.BusinessAddress)
	b.addString("rdo", upd.RDO)
	b.addString("fiscal_year", upd.FiscalYear)
	b.addString("business_type", upd.BusinessType)
	b.addString("line_of_business", upd.LineOfBusiness)
	b.addString("telephone_fax", upd.TelephoneFax)
	b.addString("authorized_representative", upd.AuthorizedRepresentative)
	if err := b.apply(ctx, st.s.db, "companies", id); err != nil {
		return nil, err
	}
	return st.Find(ctx, id)
}

func (st *companyStore) SoftDelete(ctx context.Context, id string) error {
	return st.s.softDeleteRow(ctx, "companies", id, books.ErrNotFound)
}

func (st *companyStore) Restore(ctx context.Context, id string) error {
	return st.s.restoreRow(ctx, "companies", id, books.ErrNotFound)
}

// setBuilder accumulates update set-clauses for lifecycle-guarded rows.
type setBuilder struct {
	sets []string
	args []any
	idx  int
}

func newSetBuilder() *setBuilder {
	return &setBuilder{idx: 1}
}

func (b *setBuilder) add(column string, value any) {
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, b.idx))
	b.args = append(b.args, value)
	b.idx++
}

func (b *setBuilder) addString(column string, value *string) {
	if value != nil {
		b.add(column, *value)
	}
}

// apply runs the accumulated update against an active row. A deleted or
// missing row reports not found; a no-op update still requires the row
// to exist, which the follow-up Find enforces at the caller.
func (b *setBuilder) apply(ctx context.Context, db *sql.DB, table, id string) error {
	if len(b.sets) == 0 {
		return nil
	}
	b.sets = append(b.sets, "updated_at = now()")
	query := fmt.Sprintf(`update %s set %s where id = $%d and not is_deleted`,
		table, strings.Join(b.sets, ", "), b.idx)
	b.args = append(b.args, id)
	res, err := db.ExecContext(ctx, query, b.args...)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return books.ErrConflict
		}
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return books.ErrNotFound
	}
	return nil
}

// applyKinded is apply with an additional kind precondition, used for
// the journals table where an id is only addressable under its kind.
func (b *setBuilder) applyKinded(ctx context.Context, db *sql.DB, table, id, kind string) error {
	if len(b.sets) == 0 {
		return nil
	}
	b.sets = append(b.sets, "updated_at = now()")
	query := fmt.Sprintf(`update %s set %s where id = $%d and kind = $%d and not is_deleted`,
		table, strings.Join(b.sets, ", "), b.idx, b.idx+1)
	b.args = append(b.args, id, kind)
	res, err := db.ExecContext(ctx, query, b.args...)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return books.ErrNotFound
	}
	return nil
}

type branchStore struct{ s *Store }

const branchColumns = `id, name, address, tin, machine_id, is_deleted, deleted_at, restored_at, created_at, updated_at`

func (st *branchStore) scan(row rowScanner) (*books.Branch, error) {
	var (
		b         books.Branch
		sealed    string
		deletedAt sql.NullTime
		restored  sql.NullTime
	)
	err := row.Scan(&b.ID, &b.Name, &b.Address, &sealed, &b.MachineID,
		&b.IsDeleted, &deletedAt, &restored, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, books.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.TIN = st.s.decrypt(sealed)
	b.DeletedAt = timeOrNil(deletedAt)
	b.RestoredAt = timeOrNil(restored)
	return &b, nil
}

func (st *branchStore) collect(rows *sql.Rows) ([]books.Branch, error) {
	var branches []books.Branch
	for rows.Next() {
		b, err := st.scan(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return branches, nil
}

func (st *branchStore) Create(ctx context.Context, b *books.Branch) error {
	sealed, err := st.s.encrypt(b.TIN)
	if err != nil {
		return err
	}
	b.ID = ids.New()
	row := st.s.db.QueryRowContext(ctx, `
		insert into branches (id, name, address, tin, machine_id)
		values ($1, $2, $3, $4, $5)
		returning created_at, updated_at
	`, b.ID, b.Name, b.Address, sealed, b.MachineID)
	return row.Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (st *branchStore) Find(ctx context.Context, id string) (*books.Branch, error) {
	return st.scan(st.s.db.QueryRowContext(ctx,
		`select `+branchColumns+` from branches where id = $1 and not is_deleted`, id))
}

func (st *branchStore) List(ctx context.Context) ([]books.Branch, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+branchColumns+` from branches where not is_deleted order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return st.collect(rows)
}

func (st *branchStore) ListDeleted(ctx context.Context) ([]books.Branch, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+branchColumns+` from branches where is_deleted order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return st.collect(rows)
}

func (st *branchStore) Update(ctx context.Context, id string, upd books.BranchUpdate) (*books.Branch, error) {
	b := newSetBuilder()
	b.addString("name", upd.Name)
	b.addString("address", upd.Address)
	if upd.TIN != nil {
		sealed, err := st.s.encrypt(*upd.TIN)
		if err != nil {
			return nil, err
		}
		b.add("tin", sealed)
	}
	b.addString("machine_id", upd.MachineID)
	if err := b.apply(ctx, st.s.db, "branches", id); err != nil {
		return nil, err
	}
	return st.Find(ctx, id)
}

func (st *branchStore) SoftDelete(ctx context.Context, id string) error {
	return st.s.softDeleteRow(ctx, "branches", id, books.ErrNotFound)
}

func (st *branchStore) Restore(ctx context.Context, id string) error {
	return st.s.restoreRow(ctx, "branches", id, books.ErrNotFound)
}

type locationStore struct{ s *Store }

const locationColumns = `id, name, address, tin, machine_id, coalesce(branch_id,''),
	is_deleted, deleted_at, restored_at, created_at, updated_at`

func (st *locationStore) scan(row rowScanner) (*books.Location, error) {
	var (
		l         books.Location
		sealed    string
		deletedAt sql.NullTime
		restored  sql.NullTime
	)
	err := row.Scan(&l.ID, &l.Name, &l.Address, &sealed, &l.MachineID, &l.BranchID,
		&l.IsDeleted, &deletedAt, &restored, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, books.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l.TIN = st.s.decrypt(sealed)
	l.DeletedAt = timeOrNil(deletedAt)
	l.RestoredAt = timeOrNil(restored)
	return &l, nil
}

func (st *locationStore) collect(rows *sql.Rows) ([]books.Location, error) {
	var locations []books.Location
	for rows.Next() {
		l, err := st.scan(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locations, nil
}

func (st *locationStore) Create(ctx context.Context, l *books.Location) error {
	sealed, err := st.s.encrypt(l.TIN)
	if err != nil {
		return err
	}
	l.ID = ids.New()
	row := st.s.db.QueryRowContext(ctx, `
		insert into locations (id, name, address, tin, machine_id, branch_id)
		values ($1, $2, $3, $4, $5, $6)
		returning created_at, updated_at
	`, l.ID, l.Name, l.Address, sealed, l.MachineID, nullIfEmpty(l.BranchID))
	return row.Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (st *locationStore) Find(ctx context.Context, id string) (*books.Location, error) {
	return st.scan(st.s.db.QueryRowContext(ctx,
		`select `+locationColumns+` from locations where id = $1 and not is_deleted`, id))
}

func (st *locationStore) List(ctx context.Context) ([]books.Location, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+locationColumns+` from locations where not is_deleted order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return st.collect(rows)
}

func (st *locationStore) ListDeleted(ctx context.Context) ([]books.Location, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+locationColumns+` from locations where is_deleted order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return st.collect(rows)
}

func (st *locationStore) ListByBranch(ctx context.Context, branchID string) ([]books.Location, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+locationColumns+` from locations where branch_id = $1 and not is_deleted order by name`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return st.collect(rows)
}

func (st *locationStore) Update(ctx context.Context, id string, upd books.LocationUpdate) (*books.Location, error) {
	b := newSetBuilder()
	b.addString("name", upd.Name)
	b.addString("address", upd.Address)
	if upd.TIN != nil {
		sealed, err := st.s.encrypt(*upd.TIN)
		if err != nil {
			return nil, err
		}
		b.add("tin", sealed)
	}
	b.addString("machine_id", upd.MachineID)
	if upd.BranchID != nil {
		b.add("branch_id", nullIfEmpty(*upd.BranchID))
	}
	if err := b.apply(ctx, st.s.db, "locations", id); err != nil {
		return nil, err
	}
	return st.Find(ctx, id)
}

func (st *locationStore) SoftDelete(ctx context.Context, id string) error {
	return st.s.softDeleteRow(ctx, "locations", id, books.ErrNotFound)
}

func (st *locationStore) Restore(ctx context.Context, id string) error {
	return st.s.restoreRow(ctx, "locations", id, books.ErrNotFound)
}

type agentStore struct{ s *Store }

const agentColumns = `id, agent_code, tin, tax_classification, registered_name, agent_name, trade_name,
	agent_type, registration_type, authorized_representative, address, email, phone, fax, website,
	is_deleted, deleted_at, restored_at, created_at, updated_at`

func (st *agentStore) scan(row rowScanner) (*books.Agent, error) {
	var (
		a         books.Agent
		sealed    string
		deletedAt sql.NullTime
		restored  sql.NullTime
	)
	err := row.Scan(&a.ID, &a.AgentCode, &sealed, &a.TaxClassification, &a.RegisteredName,
		&a.AgentName, &a.TradeName, &a.AgentType, &a.RegistrationType, &a.AuthorizedRepresentative,
		&a.Address, &a.Email, &a.Phone, &a.Fax, &a.Website,
		&a.IsDeleted, &deletedAt, &restored, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, books.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.TIN = st.s.decrypt(sealed)
	a.DeletedAt = timeOrNil(deletedAt)
	a.RestoredAt = timeOrNil(restored)
	return &a, nil
}

func (st *agentStore) collect(rows *sql.Rows) ([]books.Agent, error) {
	var agents []books.Agent
	for rows.Next() {
		a, err := st.scan(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return agents, nil
}

func (st *agentStore) Create(ctx context.Context, a *books.Agent) error {
	sealed, err := st.s.encrypt(a.TIN)
	if err != nil {
		return err
	}
	a.ID = ids.New()
	row := st.s.db.QueryRowContext(ctx, `
		insert into agents (id, agent_code, tin, tax_classification, registered_name, agent_name,
			trade_name, agent_type, registration_type, authorized_representative, address, email,
			phone, fax, website)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		returning created_at, updated_at
	`, a.ID, a.AgentCode, sealed, a.TaxClassification, a.RegisteredName, a.AgentName,
		a.TradeName, a.AgentType, a.RegistrationType, a.AuthorizedRepresentative, a.Address,
		a.Email, a.Phone, a.Fax, a.Website)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: agent code %s already registered", books.ErrConflict, a.AgentCode)
		}
		return err
	}
	return nil
}

func (st *agentStore) Find(ctx context.Context, id string) (*books.Agent, error) {
	return st.scan(st.s.db.QueryRowContext(ctx,
		`select `+agentColumns+` from agents where id = $1 and not is_deleted`, id))
}

func (st *agentStore) FindByCode(ctx context.Context, code string) (*books.Agent, error) {
	return st.scan(st.s.db.QueryRowContext(ctx,
		`select `+agentColumns+` from agents where agent_code = $1 and not is_deleted`, code))
}

func (st *agentStore) List(ctx context.Context) ([]books.Agent, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+agentColumns+` from agents where not is_deleted order by agent_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return st.collect(rows)
}

func (st *agentStore) ListDeleted(ctx context.Context) ([]books.Agent, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+agentColumns+` from agents where is_deleted order by agent_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return st.collect(rows)
}

func (st *agentStore) Update(ctx context.Context, id string, upd books.AgentUpdate) (*books.Agent, error) {
	b := newSetBuilder()
	b.addString("agent_code", upd.AgentCode)
	if upd.TIN != nil {
		sealed, err := st.s.encrypt(*upd.TIN)
		if err != nil {
			return nil, err
		}
		b.add("tin", sealed)
	}
	b.addString("tax_classification", upd.TaxClassification)
	b.addString("registered_name", upd.RegisteredName)
	b.addString("agent_name", upd.AgentName)
	b.addString("trade_name", upd.TradeName)
	b.addString("agent_type", upd.AgentType)
	b.addString("registration_type", upd.RegistrationType)
	b.addString("authorized_representative", upd.AuthorizedRepresentative)
	b.addString("address", upd.Address)
	b.addString("email", upd.Email)
	b.addString("phone", upd.Phone)
	b.addString("fax", upd.Fax)
	b.addString("website", upd.Website)
	if err := b.apply(ctx, st.s.db, "agents", id); err != nil {
		return nil, err
	}
	return st.Find(ctx, id)
}

func (st *agentStore) SoftDelete(ctx context.Context, id string) error {
	return st.s.softDeleteRow(ctx, "agents", id, books.ErrNotFound)
}

func (st *agentStore) Restore(ctx context.Context, id string) error {
	return st.s.restoreRow(ctx, "agents", id, books.ErrNotFound)
}

type accountStore struct{ s *Store }

const accountColumns = `id, account_code, account_name, account_type, normal_balance, parent_id,
	is_deleted, deleted_at, restored_at, created_at, updated_at`

func scanAccount(row rowScanner) (*books.ChartOfAccount, error) {
	var (
		a         books.ChartOfAccount
		parentID  sql.NullString
		deletedAt sql.NullTime
		restored  sql.NullTime
	)
	err := row.Scan(&a.ID, &a.AccountCode, &a.AccountName, &a.AccountType, &a.NormalBalance,
		&parentID, &a.IsDeleted, &deletedAt, &restored, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, books.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if parentID.Valid && parentID.String != "" {
		parent := parentID.String
		a.ParentID = &parent
	}
	a.DeletedAt = timeOrNil(deletedAt)
	a.RestoredAt = timeOrNil(restored)
	return &a, nil
}

func collectAccounts(rows *sql.Rows) ([]books.ChartOfAccount, error) {
	var accounts []books.ChartOfAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (st *accountStore) Create(ctx context.Context, a *books.ChartOfAccount) error {
	a.ID = ids.New()
	var parent sql.NullString
	if a.ParentID != nil {
		parent = nullIfEmpty(*a.ParentID)
	}
	row := st.s.db.QueryRowContext(ctx, `
		insert into accounts (id, account_code, account_name, account_type, normal_balance, parent_id)
		values ($1, $2, $3, $4, $5, $6)
		returning created_at, updated_at
	`, a.ID, a.AccountCode, a.AccountName, a.AccountType, a.NormalBalance, parent)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: account code %s already registered", books.ErrConflict, a.AccountCode)
		}
		return err
	}
	return nil
}

func (st *accountStore) Find(ctx context.Context, id string) (*books.ChartOfAccount, error) {
	return scanAccount(st.s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where id = $1 and not is_deleted`, id))
}

func (st *accountStore) FindByCode(ctx context.Context, code string) (*books.ChartOfAccount, error) {
	return scanAccount(st.s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where account_code = $1 and not is_deleted`, code))
}

func (st *accountStore) List(ctx context.Context) ([]books.ChartOfAccount, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+accountColumns+` from accounts where not is_deleted order by account_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (st *accountStore) ListDeleted(ctx context.Context) ([]books.ChartOfAccount, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+accountColumns+` from accounts where is_deleted order by account_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (st *accountStore) ListParents(ctx context.Context) ([]books.ChartOfAccount, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+accountColumns+` from accounts where parent_id is null and not is_deleted order by account_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (st *accountStore) ListChildren(ctx context.Context, parentID string) ([]books.ChartOfAccount, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+accountColumns+` from accounts where parent_id = $1 and not is_deleted order by account_code`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (st *accountStore) Update(ctx context.Context, id string, upd books.AccountUpdate) (*books.ChartOfAccount, error) {
	b := newSetBuilder()
	b.addString("account_code", upd.AccountCode)
	b.addString("account_name", upd.AccountName)
	b.addString("account_type", upd.AccountType)
	b.addString("normal_balance", upd.NormalBalance)
	if upd.ParentID != nil {
		b.add("parent_id", nullIfEmpty(*upd.ParentID))
	}
	if err := b.apply(ctx, st.s.db, "accounts", id); err != nil {
		return nil, err
	}
	return st.Find(ctx, id)
}

func (st *accountStore) SoftDelete(ctx context.Context, id string) error {
	return st.s.softDeleteRow(ctx, "accounts", id, books.ErrNotFound)
}

func (st *accountStore) Restore(ctx context.Context, id string) error {
	return st.s.restoreRow(ctx, "accounts", id, books.ErrNotFound)
}

func (st *accountStore) PurgeAll(ctx context.Context) (int, error) {
	res, err := st.s.db.ExecContext(ctx, `delete from accounts`)
	if err != nil {
		return 0, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(aff), nil
}
