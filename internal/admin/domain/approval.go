package domain

import "time"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is one of the three known states.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// CreatedByAdminNote is the note attached to requests raised by createUser.
const CreatedByAdminNote = "Created by admin"

// ApprovalRequest is the document kept at userApprovals/{uid}.
type ApprovalRequest struct {
	UserID      string         `json:"userId"`
	Email       string         `json:"email"`
	DisplayName string         `json:"displayName"`
	Role        string         `json:"role"`
	Department  string         `json:"department"`
	EmployeeID  string         `json:"employeeId"`
	RequestTime time.Time      `json:"requestTime"`
	Status      ApprovalStatus `json:"status"`
	ReviewedBy  *string        `json:"reviewedBy"`
	ReviewedAt  *time.Time     `json:"reviewedAt"`
	Notes       string         `json:"notes"`
}

// NewApprovalRequest builds the pending request raised for u.
func NewApprovalRequest(u User, now time.Time) ApprovalRequest {
	return ApprovalRequest{
		UserID:      u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Department:  u.Department,
		EmployeeID:  u.EmployeeID,
		RequestTime: now,
		Status:      ApprovalPending,
		Notes:       CreatedByAdminNote,
	}
}
