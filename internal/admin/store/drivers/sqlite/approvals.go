package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
)

const approvalColumns = `user_id, email, display_name, role, department, employee_id,
	request_time, status, reviewed_by, reviewed_at, notes`

type approvalsRepo struct {
	q dbtx
}

func scanApproval(row rowScanner) (domain.ApprovalRequest, error) {
	var (
		a          domain.ApprovalRequest
		requested  string
		reviewedBy sql.NullString
		reviewedAt sql.NullString
	)
	err := row.Scan(
		&a.UserID, &a.Email, &a.DisplayName, &a.Role, &a.Department, &a.EmployeeID,
		&requested, &a.Status, &reviewedBy, &reviewedAt, &a.Notes,
	)
	if err != nil {
		return domain.ApprovalRequest{}, err
	}

	if a.RequestTime, err = parseTime(requested); err != nil {
		return domain.ApprovalRequest{}, fmt.Errorf("sqlite: user_approvals.request_time: %w", err)
	}
	if a.ReviewedAt, err = mapNullTimePtr(reviewedAt); err != nil {
		return domain.ApprovalRequest{}, fmt.Errorf("sqlite: user_approvals.reviewed_at: %w", err)
	}
	a.ReviewedBy = mapNullStringPtr(reviewedBy)
	return a, nil
}

func (r *approvalsRepo) Get(ctx context.Context, uid string) (domain.ApprovalRequest, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+approvalColumns+` FROM user_approvals WHERE user_id = ?`, uid)
	a, err := scanApproval(row)
	if err != nil {
		return domain.ApprovalRequest{}, mapNotFound(err)
	}
	return a, nil
}

func (r *approvalsRepo) Create(ctx context.Context, a domain.ApprovalRequest) error {
	_, err := r.q.ExecContext(ctx, `INSERT OR REPLACE INTO user_approvals (`+approvalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Email, a.DisplayName, a.Role, a.Department, a.EmployeeID,
		formatTime(a.RequestTime), string(a.Status),
		mapOptionalString(a.ReviewedBy), mapOptionalTime(a.ReviewedAt), a.Notes,
	)
	return err
}

func (r *approvalsRepo) Update(ctx context.Context, a domain.ApprovalRequest) error {
	res, err := r.q.ExecContext(ctx, `UPDATE user_approvals SET
		email = ?, display_name = ?, role = ?, department = ?, employee_id = ?,
		request_time = ?, status = ?, reviewed_by = ?, reviewed_at = ?, notes = ?
		WHERE user_id = ?`,
		a.Email, a.DisplayName, a.Role, a.Department, a.EmployeeID,
		formatTime(a.RequestTime), string(a.Status),
		mapOptionalString(a.ReviewedBy), mapOptionalTime(a.ReviewedAt), a.Notes,
		a.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *approvalsRepo) Delete(ctx context.Context, uid string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM user_approvals WHERE user_id = ?`, uid)
	return err
}

func (r *approvalsRepo) List(ctx context.Context, status domain.ApprovalStatus) ([]domain.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM user_approvals`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY request_time, user_id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ApprovalRequest
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
