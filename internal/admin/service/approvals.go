package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

const (
	msgOnlyAdminsListApprovals   = "Only admins can list approvals"
	msgOnlyAdminsReviewApprovals = "Only admins can review approvals"
	msgInvalidStatus             = "Invalid approval status"
	msgInvalidDecision           = "Decision must be approved or rejected"
	msgApprovalNotFound          = "Approval request not found"
	msgApprovalAlreadyReviewed   = "Approval request already reviewed"
	msgErrorListingApprovals     = "Error listing approvals"
	msgErrorReviewingApproval    = "Error reviewing approval"
)

// ApprovalService lets admins inspect and decide the approval requests
// raised for new managers.
type ApprovalService struct {
	Store store.Store
	Now   func() time.Time
}

type ListApprovalsRequest struct {
	Status string `json:"status,omitempty"`
}

type ListApprovalsResult struct {
	Approvals []domain.ApprovalRequest `json:"approvals"`
}

type ReviewApprovalRequest struct {
	UID      string `json:"uid"`
	Decision string `json:"decision"`
	Notes    string `json:"notes,omitempty"`
}

type ReviewApprovalResult struct {
	UID    string                `json:"uid"`
	Status domain.ApprovalStatus `json:"status"`
}

func (s *ApprovalService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ApprovalService) ListApprovals(ctx context.Context, caller *domain.Caller, req ListApprovalsRequest) (ListApprovalsResult, error) {
	if err := requireAdmin(ctx, s.Store.Users(), caller, msgOnlyAdminsListApprovals); err != nil {
		return ListApprovalsResult{}, err
	}

	status := domain.ApprovalStatus(strings.TrimSpace(req.Status))
	if status != "" && !status.Valid() {
		return ListApprovalsResult{}, invalidArgument(msgInvalidStatus)
	}

	list, err := s.Store.Approvals().List(ctx, status)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list approvals", slog.Any("error", err))
		return ListApprovalsResult{}, internal(msgErrorListingApprovals, err)
	}
	if list == nil {
		list = []domain.ApprovalRequest{}
	}
	return ListApprovalsResult{Approvals: list}, nil
}

// ReviewApproval moves a pending request to approved or rejected. Approval
// also enables the user document, in the same transaction.
func (s *ApprovalService) ReviewApproval(ctx context.Context, caller *domain.Caller, req ReviewApprovalRequest) (ReviewApprovalResult, error) {
	log := slogx.FromContext(ctx)

	if err := requireAdmin(ctx, s.Store.Users(), caller, msgOnlyAdminsReviewApprovals); err != nil {
		return ReviewApprovalResult{}, err
	}

	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return ReviewApprovalResult{}, invalidArgument(msgUserIDRequired)
	}
	decision := domain.ApprovalStatus(strings.TrimSpace(req.Decision))
	if decision != domain.ApprovalApproved && decision != domain.ApprovalRejected {
		return ReviewApprovalResult{}, invalidArgument(msgInvalidDecision)
	}

	now := s.now()
	reviewer := domain.ActorOrDefault(caller.UID)

	err := s.Store.WithTx(ctx, func(tx store.Repositories) error {
		a, err := tx.Approvals().Get(ctx, uid)
		if errors.Is(err, store.ErrNotFound) {
			return invalidArgument(msgApprovalNotFound)
		}
		if err != nil {
			return fmt.Errorf("load approval request: %w", err)
		}
		if a.Status != domain.ApprovalPending {
			return invalidArgument(msgApprovalAlreadyReviewed)
		}

		// Reads first: Firestore transactions reject reads after writes.
		var user domain.User
		if decision == domain.ApprovalApproved {
			if user, err = tx.Users().Get(ctx, uid); err != nil {
				return fmt.Errorf("load user document: %w", err)
			}
		}

		a.Status = decision
		a.ReviewedBy = &reviewer
		a.ReviewedAt = &now
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			a.Notes = notes
		}
		if err := tx.Approvals().Update(ctx, a); err != nil {
			return fmt.Errorf("update approval request: %w", err)
		}

		if decision == domain.ApprovalApproved {
			user.Disabled = false
			user.PendingApproval = false
			user.UpdatedBy = reviewer
			user.LastUpdated = now
			if err := tx.Users().Update(ctx, user); err != nil {
				return fmt.Errorf("enable user document: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		var ce *CallError
		if errors.As(err, &ce) {
			log.Warn("review rejected", slog.String("uid", uid), slog.String("reason", ce.Message))
			return ReviewApprovalResult{}, ce
		}
		log.Error("failed to review approval", slog.String("uid", uid), slog.Any("error", err))
		return ReviewApprovalResult{}, internal(msgErrorReviewingApproval, err)
	}

	log.Info("approval reviewed", slog.String("uid", uid), slog.String("status", string(decision)))
	return ReviewApprovalResult{UID: uid, Status: decision}, nil
}
