package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
)

const userColumns = `uid, email, display_name, role, department, employee_id,
	disabled, pending_approval, email_verified, creation_time, last_updated,
	last_login, last_activity, created_by, updated_by`

type usersRepo struct {
	q dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                     domain.User
		created, updated      string
		lastLogin, lastActive sql.NullString
	)
	err := row.Scan(
		&u.UID, &u.Email, &u.DisplayName, &u.Role, &u.Department, &u.EmployeeID,
		&u.Disabled, &u.PendingApproval, &u.EmailVerified, &created, &updated,
		&lastLogin, &lastActive, &u.CreatedBy, &u.UpdatedBy,
	)
	if err != nil {
		return domain.User{}, err
	}

	if u.CreationTime, err = parseTime(created); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: users.creation_time: %w", err)
	}
	if u.LastUpdated, err = parseTime(updated); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: users.last_updated: %w", err)
	}
	if u.LastLogin, err = mapNullTimePtr(lastLogin); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: users.last_login: %w", err)
	}
	if u.LastActivity, err = mapNullTimePtr(lastActive); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: users.last_activity: %w", err)
	}
	return u, nil
}

func (r *usersRepo) Get(ctx context.Context, uid string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid = ?`, uid)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `INSERT OR REPLACE INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.UID, u.Email, u.DisplayName, u.Role, u.Department, u.EmployeeID,
		u.Disabled, u.PendingApproval, u.EmailVerified,
		formatTime(u.CreationTime), formatTime(u.LastUpdated),
		mapOptionalTime(u.LastLogin), mapOptionalTime(u.LastActivity),
		u.CreatedBy, u.UpdatedBy,
	)
	return err
}

func (r *usersRepo) Update(ctx context.Context, u domain.User) error {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET
		email = ?, display_name = ?, role = ?, department = ?, employee_id = ?,
		disabled = ?, pending_approval = ?, email_verified = ?,
		creation_time = ?, last_updated = ?, last_login = ?, last_activity = ?,
		created_by = ?, updated_by = ?
		WHERE uid = ?`,
		u.Email, u.DisplayName, u.Role, u.Department, u.EmployeeID,
		u.Disabled, u.PendingApproval, u.EmailVerified,
		formatTime(u.CreationTime), formatTime(u.LastUpdated),
		mapOptionalTime(u.LastLogin), mapOptionalTime(u.LastActivity),
		u.CreatedBy, u.UpdatedBy,
		u.UID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) Delete(ctx context.Context, uid string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE uid = ?`, uid)
	return err
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY creation_time, uid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
