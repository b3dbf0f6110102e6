// Package lunchctl implements the operator CLI for the admin service.
package lunchctl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aussiebroadwan/lunch/pkg/adminsdk"
	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

const (
	envPrefix     = "LUNCHCTL"
	defaultServer = "http://localhost:8080"
)

// Viper keys shared by every command.
const (
	keyServer         = "server"
	keyToken          = "token"
	keyBootstrapToken = "bootstrap_token"
	keyOutput         = "output"
	keyLogLevel       = "log_level"
)

// ErrAborted is returned when the operator declines a confirmation.
var ErrAborted = errors.New("aborted")

type cli struct {
	v      *viper.Viper
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	cfgFile string
}

// NewRootCommand builds the command tree. Streams are injected so the
// commands can be driven from tests.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{
		v:      viper.New(),
		in:     in,
		out:    out,
		errOut: errOut,
		logger: slogx.Discard(),
	}

	root := &cobra.Command{
		Use:           "lunchctl",
		Short:         "Lunch Manager admin CLI",
		Long:          "Drives the Lunch Manager callable API: users, approvals, reconciliation and bootstrap.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "Config file (default ./lunchctl.yaml or ~/.config/lunchctl/lunchctl.yaml)")
	pf.String("server", defaultServer, "Admin service base URL")
	pf.String("token", "", "ID token used as the bearer credential")
	pf.StringP("output", "o", "text", "Output format: text or json")
	pf.String("log-level", "warn", "Log level for diagnostics on stderr")

	c.v.BindPFlag(keyServer, pf.Lookup("server"))
	c.v.BindPFlag(keyToken, pf.Lookup("token"))
	c.v.BindPFlag(keyOutput, pf.Lookup("output"))
	c.v.BindPFlag(keyLogLevel, pf.Lookup("log-level"))

	root.AddCommand(
		c.signInCommand(),
		c.bootstrapCommand(),
		c.usersCommand(),
		c.approvalsCommand(),
		c.reconcileCommand(),
		c.healthCommand(),
	)
	return root
}

func (c *cli) initConfig() error {
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.v.AutomaticEnv()

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		c.v.SetConfigName("lunchctl")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			c.v.AddConfigPath(filepath.Join(home, ".config", "lunchctl"))
		}
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	c.logger = slogx.New(slogx.Config{
		Service: "lunchctl",
		Env:     "cli",
		Level:   c.v.GetString(keyLogLevel),
		Format:  "text",
		Output:  c.errOut,
	})
	if used := c.v.ConfigFileUsed(); used != "" {
		c.logger.Debug("Using config file", slog.String("path", used))
	}
	return nil
}

func (c *cli) client() *adminsdk.Client {
	server := c.v.GetString(keyServer)
	c.logger.Debug("Connecting", slog.String("server", server))
	return adminsdk.NewClient(server)
}

// session requires a token, since every callable rejects anonymous callers.
func (c *cli) session() (*adminsdk.Session, error) {
	token := c.v.GetString(keyToken)
	if token == "" {
		return nil, fmt.Errorf("no token: run `lunchctl signin` and set --token or %s_TOKEN", envPrefix)
	}
	return c.client().NewSession(token), nil
}
