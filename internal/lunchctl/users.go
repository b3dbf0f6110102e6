package lunchctl

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/lunch/pkg/adminsdk"
	"github.com/aussiebroadwan/lunch/pkg/cryptox"
	"github.com/aussiebroadwan/lunch/pkg/dialog"
)

const generatedPasswordLength = 16

func (c *cli) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Create and delete users",
	}
	cmd.AddCommand(c.usersCreateCommand(), c.usersDeleteCommand())
	return cmd
}

func (c *cli) usersCreateCommand() *cobra.Command {
	var (
		req      adminsdk.CreateUserRequest
		generate bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an identity account and its user document",
		Long: "Creates a user. Managers are created disabled with a pending approval request that an\n" +
			"admin reviews with `lunchctl approvals review`.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}

			if generate {
				if req.Password != "" {
					return errors.New("--password and --generate-password are mutually exclusive")
				}
				if req.Password, err = cryptox.GeneratePassword(generatedPasswordLength); err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
			}

			res, err := s.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := struct {
				UID      string `json:"uid"`
				Password string `json:"password,omitempty"`
			}{UID: res.UID}
			if generate {
				out.Password = req.Password
			}

			return c.emit(out, func() error {
				c.printf("Created user %s (%s)\n", req.Email, res.UID)
				if generate {
					c.printf("Password: %s\n", req.Password)
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "User email")
	f.StringVar(&req.Password, "password", "", "Initial password")
	f.BoolVar(&generate, "generate-password", false, "Generate a random initial password and print it")
	f.StringVar(&req.DisplayName, "display-name", "", "Display name")
	f.StringVar(&req.Role, "role", "", "Role, e.g. admin or manager")
	f.StringVar(&req.Department, "department", "", "Department")
	f.StringVar(&req.EmployeeID, "employee-id", "", "Employee ID")
	return cmd
}

func (c *cli) usersDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <uid>",
		Short: "Delete a user's identity account and user document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid := args[0]
			s, err := c.session()
			if err != nil {
				return err
			}

			if !yes && !c.confirm(cmd, fmt.Sprintf("Delete user %s?\nThis removes the account and its document.", uid), "Delete user") {
				fmt.Fprintln(c.errOut, "Aborted")
				return ErrAborted
			}

			res, err := s.DeleteUser(cmd.Context(), uid)
			if err != nil {
				return err
			}
			return c.emit(res, func() error {
				c.printf("%s\n", res.Message)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirm asks the operator on the terminal. Dialog output goes to stderr
// so stdout stays machine readable.
func (c *cli) confirm(cmd *cobra.Command, message, title string) bool {
	term := dialog.NewTerminal(c.in, c.errOut)
	m := dialog.NewManager(func() dialog.Overlay { return term }, dialog.WithFade(0))

	r := m.Confirm(message, title)
	if err := term.Answer(m); err != nil {
		return false
	}
	return r.Wait(cmd.Context())
}
