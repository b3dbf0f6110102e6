package adminsdk

import (
	"time"

	"github.com/aussiebroadwan/lunch/pkg/jwtx"
)

// CallRequest wraps the payload of a callable invocation.
type CallRequest[T any] struct {
	Data T `json:"data"`
}

// CallResponse wraps the result of a successful callable invocation.
type CallResponse[T any] struct {
	Result T `json:"result"`
}

// ============================================================================
// Users
// ============================================================================

type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
	EmployeeID  string `json:"employeeId,omitempty"`
}

type CreateUserResponse struct {
	UID string `json:"uid"`
}

type DeleteUserResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Approvals
// ============================================================================

// Approval is an approval request document as returned by listApprovals.
type Approval struct {
	UserID      string     `json:"userId"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	Role        string     `json:"role"`
	Department  string     `json:"department"`
	EmployeeID  string     `json:"employeeId"`
	RequestTime time.Time  `json:"requestTime"`
	Status      string     `json:"status"`
	ReviewedBy  *string    `json:"reviewedBy"`
	ReviewedAt  *time.Time `json:"reviewedAt"`
	Notes       string     `json:"notes"`
}

type ListApprovalsResponse struct {
	Approvals []Approval `json:"approvals"`
}

type ReviewApprovalRequest struct {
	UID      string `json:"uid"`
	Decision string `json:"decision"`
	Notes    string `json:"notes,omitempty"`
}

type ReviewApprovalResponse struct {
	UID    string `json:"uid"`
	Status string `json:"status"`
}

// ============================================================================
// Reconciliation
// ============================================================================

type ReconcileReport struct {
	OrphanDocuments   []string  `json:"orphanDocuments"`
	OrphanAccounts    []string  `json:"orphanAccounts"`
	DanglingApprovals []string  `json:"danglingApprovals"`
	Repaired          int       `json:"repaired"`
	RepairFailures    int       `json:"repairFailures"`
	Repair            bool      `json:"repair"`
	StartedAt         time.Time `json:"startedAt"`
}

// ============================================================================
// Bootstrap and sign-in
// ============================================================================

type BootstrapRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type BootstrapResponse struct {
	UID string `json:"uid"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	UID       string `json:"localId"`
	Email     string `json:"email"`
	IDToken   string `json:"idToken"`
	ExpiresIn int64  `json:"expiresIn"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Backend string        `json:"backend,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Documents string `json:"documents"`
	Identity  string `json:"identity"`
}

// JWKSResponse is the key set served by the local identity backend.
type JWKSResponse = jwtx.JWKS
