package lunchctl

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/lunch/pkg/adminsdk"
)

func (c *cli) approvalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "List and review manager approval requests",
	}
	cmd.AddCommand(c.approvalsListCommand(), c.approvalsReviewCommand())
	return cmd
}

func (c *cli) approvalsListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List approval requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}

			approvals, err := s.ListApprovals(cmd.Context(), status)
			if err != nil {
				return err
			}

			return c.emit(adminsdk.ListApprovalsResponse{Approvals: approvals}, func() error {
				if len(approvals) == 0 {
					c.printf("No approval requests\n")
					return nil
				}
				rows := make([][]string, 0, len(approvals))
				for _, a := range approvals {
					reviewer := "-"
					if a.ReviewedBy != nil {
						reviewer = *a.ReviewedBy
					}
					rows = append(rows, []string{
						a.UserID, a.Email, a.Role, a.Status,
						formatTime(&a.RequestTime), reviewer,
					})
				}
				return c.table("UID\tEMAIL\tROLE\tSTATUS\tREQUESTED\tREVIEWED BY", rows)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: pending, approved or rejected")
	return cmd
}

func (c *cli) approvalsReviewCommand() *cobra.Command {
	var req adminsdk.ReviewApprovalRequest

	cmd := &cobra.Command{
		Use:   "review <uid>",
		Short: "Approve or reject a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			req.UID = args[0]

			res, err := s.ReviewApproval(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.emit(res, func() error {
				c.printf("%s: %s\n", res.UID, res.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Decision, "decision", "", "approve or reject")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Reviewer notes")
	cmd.MarkFlagRequired("decision")
	return cmd
}
