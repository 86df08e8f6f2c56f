// Command personio reads employees, attendances, absences and projects from
// the Personio API and exports them as CSV or XLSX.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"personio-go/internal/config"
	"personio-go/pkg/personio"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type app struct {
	configPath string
	out        io.Writer

	cfg    config.Config
	log    hclog.Logger
	client *personio.Client
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "personio",
		Short: "Command line client for the Personio API",
		Long: `Command line client for the Personio API.

Credentials are read from CLIENT_ID and CLIENT_SECRET or from the config
file given with --config.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (env vars win over file values)")

	root.AddCommand(
		a.versionCmd(root),
		a.employeesCmd(),
		a.projectsCmd(),
		a.absenceTypesCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *app) versionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "personio %s\n", root.Version)
		},
	}
}

// connect loads the config and returns an authenticated client. Custom
// attributes are loaded when withAttributes is set.
func (a *app) connect(ctx context.Context, withAttributes bool) (*personio.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	a.log = cfg.Logger("personio")

	c, err := personio.New(
		personio.WithBaseURL(cfg.BaseURL),
		personio.WithCredentials(cfg.ClientID, cfg.ClientSecret),
		personio.WithPageSize(cfg.PageSize),
		personio.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}
	if withAttributes {
		mappings, err := c.LoadCustomAttributes(ctx, cfg.Aliases)
		if err != nil {
			return nil, fmt.Errorf("failed to load custom attributes: %w", err)
		}
		a.log.Debug("custom attributes loaded", "count", len(mappings))
	}
	a.client = c
	return c, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
