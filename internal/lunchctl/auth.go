package lunchctl

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/lunch/pkg/adminsdk"
)

func (c *cli) signInCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in against the local identity backend and print an ID token",
		Long: "Signs in with email and password. The ID token is printed on its own line so it can be\n" +
			"exported as LUNCHCTL_TOKEN.",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.client().SignInRaw(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			c.logger.Debug("Signed in", slog.String("uid", res.UID), slog.Int64("expires_in", res.ExpiresIn))
			return c.emit(res, func() error {
				c.printf("%s\n", res.IDToken)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) bootstrapCommand() *cobra.Command {
	var req adminsdk.BootstrapRequest

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the first admin on an empty deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := c.v.GetString(keyBootstrapToken)
			if token == "" {
				return errors.New("bootstrap token required: set --bootstrap-token or LUNCHCTL_BOOTSTRAP_TOKEN")
			}

			res, err := c.client().Bootstrap(cmd.Context(), token, req)
			if err != nil {
				return err
			}
			return c.emit(res, func() error {
				c.printf("Created admin %s (%s)\n", req.Email, res.UID)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.String("bootstrap-token", "", "Value of the server's BOOTSTRAP_TOKEN")
	f.StringVar(&req.Email, "email", "", "Admin email")
	f.StringVar(&req.Password, "password", "", "Admin password")
	f.StringVar(&req.DisplayName, "display-name", "", "Admin display name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("display-name")

	c.v.BindPFlag(keyBootstrapToken, f.Lookup("bootstrap-token"))
	return cmd
}
