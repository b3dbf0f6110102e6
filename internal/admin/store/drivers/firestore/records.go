package firestore

import (
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/aussiebroadwan/lunch/internal/admin/domain"
)

// Documents in users and userApprovals are shared with the web client,
// which stores timestamps as ISO-8601 strings. They are written the same
// way here; native Timestamps are still accepted on read.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func encodeUser(u domain.User) map[string]any {
	return map[string]any{
		"uid":             u.UID,
		"email":           u.Email,
		"displayName":     u.DisplayName,
		"role":            u.Role,
		"department":      u.Department,
		"employeeId":      u.EmployeeID,
		"disabled":        u.Disabled,
		"pendingApproval": u.PendingApproval,
		"emailVerified":   u.EmailVerified,
		"creationTime":    formatTime(u.CreationTime),
		"lastUpdated":     formatTime(u.LastUpdated),
		"lastLogin":       formatTimePtr(u.LastLogin),
		"lastActivity":    formatTimePtr(u.LastActivity),
		"createdBy":       u.CreatedBy,
		"updatedBy":       u.UpdatedBy,
	}
}

func encodeApproval(a domain.ApprovalRequest) map[string]any {
	var reviewedBy any
	if a.ReviewedBy != nil {
		reviewedBy = *a.ReviewedBy
	}
	return map[string]any{
		"userId":      a.UserID,
		"email":       a.Email,
		"displayName": a.DisplayName,
		"role":        a.Role,
		"department":  a.Department,
		"employeeId":  a.EmployeeID,
		"requestTime": formatTime(a.RequestTime),
		"status":      string(a.Status),
		"reviewedBy":  reviewedBy,
		"reviewedAt":  formatTimePtr(a.ReviewedAt),
		"notes":       a.Notes,
	}
}

// fieldUpdates turns an encoded document into field-path updates, so that
// Update fails with NotFound on a missing document.
func fieldUpdates(doc map[string]any) []firestore.Update {
	paths := make([]string, 0, len(doc))
	for p := range doc {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	updates := make([]firestore.Update, 0, len(paths))
	for _, p := range paths {
		updates = append(updates, firestore.Update{Path: p, Value: doc[p]})
	}
	return updates
}

// fields reads loosely typed document data. The first conversion error is
// kept in err.
type fields struct {
	data map[string]any
	err  error
}

func (f *fields) str(key string) string {
	switch v := f.data[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		f.fail(key, v)
		return ""
	}
}

func (f *fields) strPtr(key string) *string {
	if f.data[key] == nil {
		return nil
	}
	s := f.str(key)
	return &s
}

func (f *fields) boolean(key string) bool {
	switch v := f.data[key].(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		f.fail(key, v)
		return false
	}
}

func (f *fields) timestampPtr(key string) *time.Time {
	switch v := f.data[key].(type) {
	case nil:
		return nil
	case time.Time:
		t := v.UTC()
		return &t
	case string:
		if v == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			if f.err == nil {
				f.err = fmt.Errorf("field %q: %w", key, err)
			}
			return nil
		}
		t = t.UTC()
		return &t
	default:
		f.fail(key, v)
		return nil
	}
}

func (f *fields) timestamp(key string) time.Time {
	if t := f.timestampPtr(key); t != nil {
		return *t
	}
	return time.Time{}
}

func (f *fields) fail(key string, v any) {
	if f.err == nil {
		f.err = fmt.Errorf("field %q: unexpected type %T", key, v)
	}
}

// decodeUserData maps document data to a User. id is used when the
// document has no uid field.
func decodeUserData(id string, data map[string]any) (domain.User, error) {
	f := &fields{data: data}
	u := domain.User{
		UID:             f.str("uid"),
		Email:           f.str("email"),
		DisplayName:     f.str("displayName"),
		Role:            f.str("role"),
		Department:      f.str("department"),
		EmployeeID:      f.str("employeeId"),
		Disabled:        f.boolean("disabled"),
		PendingApproval: f.boolean("pendingApproval"),
		EmailVerified:   f.boolean("emailVerified"),
		CreationTime:    f.timestamp("creationTime"),
		LastUpdated:     f.timestamp("lastUpdated"),
		LastLogin:       f.timestampPtr("lastLogin"),
		LastActivity:    f.timestampPtr("lastActivity"),
		CreatedBy:       f.str("createdBy"),
		UpdatedBy:       f.str("updatedBy"),
	}
	if f.err != nil {
		return domain.User{}, f.err
	}
	if u.UID == "" {
		u.UID = id
	}
	return u, nil
}

func decodeApprovalData(id string, data map[string]any) (domain.ApprovalRequest, error) {
	f := &fields{data: data}
	a := domain.ApprovalRequest{
		UserID:      f.str("userId"),
		Email:       f.str("email"),
		DisplayName: f.str("displayName"),
		Role:        f.str("role"),
		Department:  f.str("department"),
		EmployeeID:  f.str("employeeId"),
		RequestTime: f.timestamp("requestTime"),
		Status:      domain.ApprovalStatus(f.str("status")),
		ReviewedBy:  f.strPtr("reviewedBy"),
		ReviewedAt:  f.timestampPtr("reviewedAt"),
		Notes:       f.str("notes"),
	}
	if f.err != nil {
		return domain.ApprovalRequest{}, f.err
	}
	if a.UserID == "" {
		a.UserID = id
	}
	return a, nil
}
