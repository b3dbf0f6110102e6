package lunchctl

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/lunch/pkg/adminsdk"
)

func (c *cli) reconcileCommand() *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Report drift between identity accounts and user documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}

			report, err := s.Reconcile(cmd.Context(), repair)
			if err != nil {
				return err
			}
			return c.emit(report, func() error {
				c.printf("Orphan documents:   %d %v\n", len(report.OrphanDocuments), report.OrphanDocuments)
				c.printf("Orphan accounts:    %d %v\n", len(report.OrphanAccounts), report.OrphanAccounts)
				c.printf("Dangling approvals: %d %v\n", len(report.DanglingApprovals), report.DanglingApprovals)
				if report.Repair {
					c.printf("Repaired: %d, failed: %d\n", report.Repaired, report.RepairFailures)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "Delete orphaned records instead of only reporting them")
	return cmd
}

func (c *cli) healthCommand() *cobra.Command {
	var ready bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check service liveness, or readiness with --ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := c.client()

			var (
				res *adminsdk.HealthResponse
				err error
			)
			if ready {
				res, err = client.GetReadiness(cmd.Context())
			} else {
				res, err = client.GetLiveness(cmd.Context())
			}
			if err != nil {
				return err
			}

			return c.emit(res, func() error {
				c.printf("%s (version %s, uptime %s)\n", res.Status, res.Version, res.Uptime)
				if res.Checks != nil {
					c.printf("documents: %s\nidentity: %s\n", res.Checks.Documents, res.Checks.Identity)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&ready, "ready", false, "Query /readyz instead of /livez")
	return cmd
}
