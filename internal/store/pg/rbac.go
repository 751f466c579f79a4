package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"systemaide.org/internal/auth"
	"systemaide.org/internal/ids"
)

type userStore struct{ s *Store }

const userColumns = `id, first_name, last_name, coalesce(middle_initial,''), email, password_hash, role, status,
	failed_login_attempts, blocked_at, restored_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*auth.User, error) {
	var (
		user      auth.User
		blockedAt sql.NullTime
		restored  sql.NullTime
	)
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.MiddleInitial, &user.Email,
		&user.PasswordHash, &user.Role, &user.Status, &user.FailedLoginAttempts,
		&blockedAt, &restored, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.BlockedAt = timeOrNil(blockedAt)
	user.RestoredAt = timeOrNil(restored)
	return &user, nil
}

func (st *userStore) Create(ctx context.Context, u *auth.User) error {
	u.ID = ids.New()
	row := st.s.db.QueryRowContext(ctx, `
		insert into users (id, first_name, last_name, middle_initial, email, password_hash, role, status)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
		returning created_at, updated_at
	`, u.ID, u.FirstName, u.LastName, nullIfEmpty(u.MiddleInitial), u.Email, u.PasswordHash, u.Role, u.Status)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: email %s already registered", auth.ErrConflict, u.Email)
		}
		return err
	}
	return nil
}

func (st *userStore) Find(ctx context.Context, id string) (*auth.User, error) {
	return scanUser(st.s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id = $1`, id))
}

func (st *userStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return scanUser(st.s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email = $1`, email))
}

func (st *userStore) List(ctx context.Context) ([]auth.User, error) {
	rows, err := st.s.db.QueryContext(ctx,
		`select `+userColumns+` from users order by last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (st *userStore) Update(ctx context.Context, id string, upd auth.UserUpdate) (*auth.User, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.MiddleInitial != nil {
		add("middle_initial", nullIfEmpty(*upd.MiddleInitial))
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	if upd.Role != nil {
		add("role", *upd.Role)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update users set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := st.s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return nil, fmt.Errorf("%w: email already registered", auth.ErrConflict)
			}
			return nil, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if aff == 0 {
			return nil, auth.ErrNotFound
		}
	}
	return st.Find(ctx, id)
}

func (st *userStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := st.s.db.QueryRowContext(ctx, `select count(*) from users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (st *userStore) RecordFailedAttempt(ctx context.Context, id string) (int, error) {
	var attempts int
	err := st.s.db.QueryRowContext(ctx, `
		update users
		set failed_login_attempts = failed_login_attempts + 1, updated_at = now()
		where id = $1
		returning failed_login_attempts
	`, id).Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, auth.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return attempts, nil
}

func (st *userStore) MarkSignedIn(ctx context.Context, id string) error {
	res, err := st.s.db.ExecContext(ctx, `
		update users
		set failed_login_attempts = 0, status = $2, updated_at = now()
		where id = $1
	`, id, auth.StatusActive)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (st *userStore) Block(ctx context.Context, id string) error {
	res, err := st.s.db.ExecContext(ctx, `
		update users
		set status = $2, blocked_at = now(), updated_at = now()
		where id = $1
	`, id, auth.StatusBlocked)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (st *userStore) Unblock(ctx context.Context, id string) error {
	res, err := st.s.db.ExecContext(ctx, `
		update users
		set status = $2, failed_login_attempts = 0, restored_at = now(), updated_at = now()
		where id = $1
	`, id, auth.StatusInactive)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}

type roleStore struct{ s *Store }

func (st *roleStore) Create(ctx context.Context, r *auth.Role) error {
	tx, err := st.s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	r.ID = ids.New()
	row := tx.QueryRowContext(ctx, `
		insert into roles (id, name)
		values ($1, $2)
		returning created_at, updated_at
	`, r.ID, r.Name)
	if err := row.Scan(&r.CreatedAt, &r.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: role %s already exists", auth.ErrConflict, r.Name)
		}
		return err
	}
	if err := insertRolePermissions(ctx, tx, r.ID, r.Permissions); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRolePermissions(ctx context.Context, tx *sql.Tx, roleID string, permissionIDs []string) error {
	for _, permID := range permissionIDs {
		if _, err := tx.ExecContext(ctx, `
			insert into role_permissions (role_id, permission_id)
			values ($1, $2)
			on conflict do nothing
		`, roleID, permID); err != nil {
			return err
		}
	}
	return nil
}

func (st *roleStore) permissionIDs(ctx context.Context, roleID string) ([]string, error) {
	rows, err := st.s.db.QueryContext(ctx, `
		select permission_id from role_permissions where role_id = $1 order by permission_id
	`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permIDs []string
	for rows.Next() {
		var permID string
		if err := rows.Scan(&permID); err != nil {
			return nil, err
		}
		permIDs = append(permIDs, permID)
	}
	return permIDs, rows.Err()
}

func (st *roleStore) Find(ctx context.Context, id string) (*auth.Role, error) {
	var role auth.Role
	err := st.s.db.QueryRowContext(ctx, `
		select id, name, created_at, updated_at from roles where id = $1
	`, id).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	role.Permissions, err = st.permissionIDs(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (st *roleStore) FindByName(ctx context.Context, name string) (*auth.Role, error) {
	var role auth.Role
	err := st.s.db.QueryRowContext(ctx, `
		select id, name, created_at, updated_at from roles where name = $1
	`, name).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	role.Permissions, err = st.permissionIDs(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (st *roleStore) List(ctx context.Context) ([]auth.Role, error) {
	rows, err := st.s.db.QueryContext(ctx, `
		select id, name, created_at, updated_at from roles order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []auth.Role
	for rows.Next() {
		var role auth.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i].Permissions, err = st.permissionIDs(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return roles, nil
}

func (st *roleStore) Update(ctx context.Context, id string, name *string, permissionIDs []string) (*auth.Role, error) {
	tx, err := st.s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `select 1 from roles where id = $1`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	if name != nil {
		if _, err := tx.ExecContext(ctx, `
			update roles set name = $2, updated_at = now() where id = $1
		`, id, *name); err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return nil, fmt.Errorf("%w: role %s already exists", auth.ErrConflict, *name)
			}
			return nil, err
		}
	}
	if permissionIDs != nil {
		if _, err := tx.ExecContext(ctx, `delete from role_permissions where role_id = $1`, id); err != nil {
			return nil, err
		}
		if err := insertRolePermissions(ctx, tx, id, permissionIDs); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, `update roles set updated_at = now() where id = $1`, id); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return st.Find(ctx, id)
}

func (st *roleStore) Delete(ctx context.Context, id string) error {
	res, err := st.s.db.ExecContext(ctx, `delete from roles where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (st *roleStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := st.s.db.QueryRowContext(ctx, `select count(*) from roles`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type permissionStore struct{ s *Store }

func (st *permissionStore) Create(ctx context.Context, p *auth.Permission) error {
	p.ID = ids.New()
	row := st.s.db.QueryRowContext(ctx, `
		insert into permissions (id, name, description)
		values ($1, $2, $3)
		returning created_at, updated_at
	`, p.ID, p.Name, nullIfEmpty(p.Description))
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: permission %s already exists", auth.ErrConflict, p.Name)
		}
		return err
	}
	return nil
}

func (st *permissionStore) Find(ctx context.Context, id string) (*auth.Permission, error) {
	var perm auth.Permission
	err := st.s.db.QueryRowContext(ctx, `
		select id, name, coalesce(description,''), created_at, updated_at
		from permissions where id = $1
	`, id).Scan(&perm.ID, &perm.Name, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

func (st *permissionStore) List(ctx context.Context) ([]auth.Permission, error) {
	rows, err := st.s.db.QueryContext(ctx, `
		select id, name, coalesce(description,''), created_at, updated_at
		from permissions order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPermissions(rows)
}

func (st *permissionStore) ListByIDs(ctx context.Context, permIDs []string) ([]auth.Permission, error) {
	if len(permIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(permIDs))
	args := make([]any, len(permIDs))
	for i, permID := range permIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = permID
	}
	rows, err := st.s.db.QueryContext(ctx, fmt.Sprintf(`
		select id, name, coalesce(description,''), created_at, updated_at
		from permissions where id in (%s) order by name
	`, strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPermissions(rows)
}

func collectPermissions(rows *sql.Rows) ([]auth.Permission, error) {
	var perms []auth.Permission
	for rows.Next() {
		var perm auth.Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

func (st *permissionStore) Update(ctx context.Context, id string, name, description *string) (*auth.Permission, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", idx))
		args = append(args, *name)
		idx++
	}
	if description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", idx))
		args = append(args, nullIfEmpty(*description))
		idx++
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update permissions set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := st.s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return nil, fmt.Errorf("%w: permission name already exists", auth.ErrConflict)
			}
			return nil, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if aff == 0 {
			return nil, auth.ErrNotFound
		}
	}
	return st.Find(ctx, id)
}

func (st *permissionStore) Delete(ctx context.Context, id string) error {
	res, err := st.s.db.ExecContext(ctx, `delete from permissions where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (st *permissionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := st.s.db.QueryRowContext(ctx, `select count(*) from permissions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
