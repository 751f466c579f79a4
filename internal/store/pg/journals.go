package pg

import (
	"context"
	"database/sql"
	"errors"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/books"
	"systemaide.org/internal/ids"
)

type journalStore struct{ s *Store }

const journalColumns = `id, kind, tx_date, month, year, coalesce(location_id,''), coalesce(agent_id,''),
	coalesce(account_id,''), ref_no, check_no, address, tin, amount, particular, transaction_lines,
	is_deleted, deleted_at, restored_at, created_at, updated_at`

func (st *journalStore) scan(row rowScanner) (*books.Journal, error) {
	var (
		j         books.Journal
		sealed    string
		deletedAt sql.NullTime
		restored  sql.NullTime
	)
	err := row.Scan(&j.ID, &j.Kind, &j.Date, &j.Month, &j.Year, &j.LocationID, &j.AgentID,
		&j.AccountID, &j.RefNo, &j.CheckNo, &j.Address, &sealed, &j.Amount, &j.Particular,
		&j.TransactionLines, &j.IsDeleted, &deletedAt, &restored, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, books.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	j.TIN = st.s.decrypt(sealed)
	j.DeletedAt = timeOrNil(deletedAt)
	j.RestoredAt = timeOrNil(restored)
	return &j, nil
}

func (st *journalStore) collect(rows *sql.Rows) ([]books.Journal, error) {
	var journals []books.Journal
	for rows.Next() {
		j, err := st.scan(rows)
		if err != nil {
			return nil, err
		}
		journals = append(journals, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return journals, nil
}

func (st *journalStore) Create(ctx context.Context, j *books.Journal) error {
	sealed, err := st.s.encrypt(j.TIN)
	if err != nil {
		return err
	}
	j.ID = ids.New()
	row := st.s.db.QueryRowContext(ctx, `
		insert into journals (id, kind, tx_date, month, year, location_id, agent_id, account_id,
			ref_no, check_no, address, tin, amount, particular, transaction_lines)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		returning created_at, updated_at
	`, j.ID, j.Kind, j.Date, j.Month, j.Year, nullIfEmpty(j.LocationID), nullIfEmpty(j.AgentID),
		nullIfEmpty(j.AccountID), j.RefNo, j.CheckNo, j.Address, sealed, j.Amount, j.Particular,
		j.TransactionLines)
	return row.Scan(&j.CreatedAt, &j.UpdatedAt)
}

func (st *journalStore) Find(ctx context.Context, kind books.JournalKind, id string) (*books.Journal, error) {
	return st.scan(st.s.db.QueryRowContext(ctx,
		`select `+journalColumns+` from journals where id = $1 and kind = $2 and not is_deleted`, id, kind))
}

func (st *journalStore) List(ctx context.Context, kind books.JournalKind) ([]books.Journal, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+journalColumns+` from journals where kind = $1 and not is_deleted order by tx_date desc, created_at desc`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return st.collect(rows)
}

func (st *journalStore) ListDeleted(ctx context.Context, kind books.JournalKind) ([]books.Journal, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+journalColumns+` from journals where kind = $1 and is_deleted order by tx_date desc, created_at desc`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return st.collect(rows)
}

func (st *journalStore) Update(ctx context.Context, kind books.JournalKind, id string, upd books.JournalUpdate) (*books.Journal, error) {
	b := newSetBuilder()
	if upd.Date != nil {
		b.add("tx_date", *upd.Date)
		b.add("month", upd.Date.Month().String())
		b.add("year", upd.Date.Year())
	}
	if upd.LocationID != nil {
		b.add("location_id", nullIfEmpty(*upd.LocationID))
	}
	if upd.AgentID != nil {
		b.add("agent_id", nullIfEmpty(*upd.AgentID))
	}
	if upd.AccountID != nil {
		b.add("account_id", nullIfEmpty(*upd.AccountID))
	}
	b.addString("ref_no", upd.RefNo)
	b.addString("check_no", upd.CheckNo)
	b.addString("address", upd.Address)
	if upd.TIN != nil {
		sealed, err := st.s.encrypt(*upd.TIN)
		if err != nil {
			return nil, err
		}
		b.add("tin", sealed)
	}
	if upd.Amount != nil {
		b.add("amount", *upd.Amount)
	}
	b.addString("particular", upd.Particular)
	b.addString("transaction_lines", upd.TransactionLines)
	if err := b.applyKinded(ctx, st.s.db, "journals", id, string(kind)); err != nil {
		return nil, err
	}
	return st.Find(ctx, kind, id)
}

func (st *journalStore) SoftDelete(ctx context.Context, kind books.JournalKind, id string) error {
	res, err := st.s.db.ExecContext(ctx, `
		update journals
		set is_deleted = true, deleted_at = now(), updated_at = now()
		where id = $1 and kind = $2 and not is_deleted
	`, id, kind)
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

func (st *journalStore) Restore(ctx context.Context, kind books.JournalKind, id string) error {
	res, err := st.s.db.ExecContext(ctx, `
		update journals
		set is_deleted = false, restored_at = now(), updated_at = now()
		where id = $1 and kind = $2 and is_deleted
	`, id, kind)
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

type auditStore struct{ s *Store }

const auditColumns = `id, kind, transaction_id, action, remarks, actor_id,
	is_deleted, deleted_at, restored_at, created_at, updated_at`

func scanEntry(row rowScanner) (*audit.Entry, error) {
	var (
		e         audit.Entry
		deletedAt sql.NullTime
		restored  sql.NullTime
	)
	err := row.Scan(&e.ID, &e.Kind, &e.TransactionID, &e.Action, &e.Remarks, &e.ActorID,
		&e.IsDeleted, &deletedAt, &restored, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, audit.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.DeletedAt = timeOrNil(deletedAt)
	e.RestoredAt = timeOrNil(restored)
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]audit.Entry, error) {
	var entries []audit.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (st *auditStore) Append(ctx context.Context, e *audit.Entry) error {
	e.ID = ids.New()
	row := st.s.db.QueryRowContext(ctx, `
		insert into transaction_logs (id, kind, transaction_id, action, remarks, actor_id)
		values ($1, $2, $3, $4, $5, $6)
		returning created_at, updated_at
	`, e.ID, e.Kind, e.TransactionID, e.Action, e.Remarks, e.ActorID)
	return row.Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (st *auditStore) Find(ctx context.Context, id string) (*audit.Entry, error) {
	return scanEntry(st.s.db.QueryRowContext(ctx,
		`select `+auditColumns+` from transaction_logs where id = $1 and not is_deleted`, id))
}

func (st *auditStore) List(ctx context.Context) ([]audit.Entry, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+auditColumns+` from transaction_logs where not is_deleted order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (st *auditStore) ListDeleted(ctx context.Context) ([]audit.Entry, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+auditColumns+` from transaction_logs where is_deleted order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (st *auditStore) ListByKind(ctx context.Context, kind books.JournalKind) ([]audit.Entry, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+auditColumns+` from transaction_logs where kind = $1 and not is_deleted order by created_at desc`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (st *auditStore) ListByTransaction(ctx context.Context, kind books.JournalKind, transactionID string) ([]audit.Entry, error) {
	rows, err := st.s.db.QueryContext(ctx, `
		select `+auditColumns+` from transaction_logs
		where kind = $1 and transaction_id = $2 and not is_deleted
		order by created_at desc
	`, kind, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (st *auditStore) SoftDelete(ctx context.Context, id string) error {
	return st.s.softDeleteRow(ctx, "transaction_logs", id, audit.ErrNotFound)
}

func (st *auditStore) Restore(ctx context.Context, id string) error {
	return st.s.restoreRow(ctx, "transaction_logs", id, audit.ErrNotFound)
}
