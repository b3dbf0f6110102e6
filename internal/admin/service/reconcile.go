package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/identity"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
)

const (
	msgOnlyAdminsReconcile = "Only admins can run reconciliation"
	msgErrorReconciling    = "Error running reconciliation"
)

// DefaultMinAccountAge keeps reconciliation away from accounts whose user
// document may still be in flight.
const DefaultMinAccountAge = 10 * time.Minute

// ReconcileService periodically compares identity accounts with user
// documents and reports (optionally repairs) three kinds of drift: user
// documents without an account, accounts without a user document, and
// approval requests without a user document.
type ReconcileService struct {
	Store         store.Store
	Identity      identity.Provider
	Logger        *slog.Logger
	Interval      time.Duration
	Repair        bool
	MinAccountAge time.Duration
	Now           func() time.Time

	stopCh   chan struct{}
	doneCh   chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

// Report summarises one reconciliation pass.
type Report struct {
	OrphanDocuments   []string  `json:"orphanDocuments"`
	OrphanAccounts    []string  `json:"orphanAccounts"`
	DanglingApprovals []string  `json:"danglingApprovals"`
	Repaired          int       `json:"repaired"`
	RepairFailures    int       `json:"repairFailures"`
	Repair            bool      `json:"repair"`
	StartedAt         time.Time `json:"startedAt"`
}

// Clean reports whether no drift was found.
func (r Report) Clean() bool {
	return len(r.OrphanDocuments) == 0 && len(r.OrphanAccounts) == 0 && len(r.DanglingApprovals) == 0
}

type ReconcileRequest struct {
	Repair bool `json:"repair"`
}

// NewReconcileService applies defaults: one hour between passes.
func NewReconcileService(st store.Store, idp identity.Provider, logger *slog.Logger, interval time.Duration, repair bool) *ReconcileService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReconcileService{
		Store:         st,
		Identity:      idp,
		Logger:        logger,
		Interval:      interval,
		Repair:        repair,
		MinAccountAge: DefaultMinAccountAge,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start launches the background loop. It does not block.
func (s *ReconcileService) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
	s.logger().Info("reconcile service started", "interval", s.Interval, "repair", s.Repair)
}

// Stop ends the loop and waits for an in-progress pass to finish. It is a
// no-op if the loop was never started.
func (s *ReconcileService) Stop() {
	if !s.started.Load() {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
	s.logger().Info("reconcile service stopped")
}

func (s *ReconcileService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.pass()
	for {
		select {
		case <-ticker.C:
			s.pass()
		case <-s.stopCh:
			return
		}
	}
}

func (s *ReconcileService) pass() {
	report, err := s.RunOnce(context.Background(), s.Repair)
	if err != nil {
		s.logger().Error("reconciliation failed", "error", err)
		return
	}
	s.logger().Info("reconciliation completed",
		"orphan_documents", len(report.OrphanDocuments),
		"orphan_accounts", len(report.OrphanAccounts),
		"dangling_approvals", len(report.DanglingApprovals),
		"repaired", report.Repaired,
		"repair_failures", report.RepairFailures,
	)
}

// Reconcile is the admin-only callable form of RunOnce.
func (s *ReconcileService) Reconcile(ctx context.Context, caller *domain.Caller, req ReconcileRequest) (Report, error) {
	if err := requireAdmin(ctx, s.Store.Users(), caller, msgOnlyAdminsReconcile); err != nil {
		return Report{}, err
	}
	report, err := s.RunOnce(ctx, req.Repair)
	if err != nil {
		s.logger().Error("reconciliation failed", "error", err)
		return Report{}, internal(msgErrorReconciling, err)
	}
	return report, nil
}

func (s *ReconcileService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// RunOnce performs a single pass. Listing failures abort the pass; repair
// failures are counted and logged but do not.
func (s *ReconcileService) RunOnce(ctx context.Context, repair bool) (Report, error) {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	report := Report{
		Repair:            repair,
		StartedAt:         now,
		OrphanDocuments:   []string{},
		OrphanAccounts:    []string{},
		DanglingApprovals: []string{},
	}
	log := s.logger()

	// Documents are listed before accounts: a user created mid-pass then
	// shows up as an account without a document, which the age filter skips.
	users, err := s.Store.Users().List(ctx)
	if err != nil {
		return report, fmt.Errorf("list user documents: %w", err)
	}
	approvals, err := s.Store.Approvals().List(ctx, "")
	if err != nil {
		return report, fmt.Errorf("list approval requests: %w", err)
	}
	accounts, err := s.Identity.ListAccounts(ctx)
	if err != nil {
		return report, fmt.Errorf("list accounts: %w", err)
	}

	docs := make(map[string]struct{}, len(users))
	for _, u := range users {
		docs[u.UID] = struct{}{}
	}
	accts := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		accts[a.UID] = struct{}{}
	}

	fix := func(kind, uid string, del func(context.Context, string) error) {
		log.Warn("reconcile: drift found", "kind", kind, "uid", uid)
		if !repair {
			return
		}
		if err := del(ctx, uid); err != nil {
			report.RepairFailures++
			log.Error("reconcile: repair failed", "kind", kind, "uid", uid, "error", err)
			return
		}
		report.Repaired++
	}

	for _, u := range users {
		if _, ok := accts[u.UID]; !ok {
			report.OrphanDocuments = append(report.OrphanDocuments, u.UID)
			fix("orphan_document", u.UID, s.Store.Users().Delete)
		}
	}

	minAge := s.MinAccountAge
	for _, a := range accounts {
		if _, ok := docs[a.UID]; ok {
			continue
		}
		if !a.CreatedAt.IsZero() && now.Sub(a.CreatedAt) < minAge {
			continue
		}
		report.OrphanAccounts = append(report.OrphanAccounts, a.UID)
		fix("orphan_account", a.UID, s.Identity.DeleteAccount)
	}

	for _, a := range approvals {
		if _, ok := docs[a.UserID]; !ok {
			report.DanglingApprovals = append(report.DanglingApprovals, a.UserID)
			fix("dangling_approval", a.UserID, s.Store.Approvals().Delete)
		}
	}

	return report, nil
}
