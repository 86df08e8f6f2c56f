// Command personio-twin serves a local stand-in for the Personio API backed
// by an in-memory store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"personio-go/internal/twin/api"
	"personio-go/internal/twin/store"
)

type options struct {
	addr     string
	seedFile string
	tokenTTL time.Duration
	logLevel string
	logJSON  bool
	shutdown time.Duration
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:          "personio-twin",
		Short:        "Serve a local Personio API twin",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := hclog.New(&hclog.LoggerOptions{
				Name:       "personio-twin",
				Level:      hclog.LevelFromString(opts.logLevel),
				JSONFormat: opts.logJSON,
			})
			return run(cmd.Context(), opts, log)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8080", "listen address")
	f.StringVar(&opts.seedFile, "seed", "", "YAML or JSON seed file (default: built-in demo company)")
	f.DurationVar(&opts.tokenTTL, "token-ttl", 0, "expire all issued tokens at this interval (0 = never)")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level")
	f.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	f.DurationVar(&opts.shutdown, "shutdown-timeout", 5*time.Second, "graceful shutdown period")
	return cmd
}

func newHandler(seedFile string, log hclog.Logger) (*api.Handler, error) {
	seed := store.DefaultSeed()
	if seedFile != "" {
		var err error
		if seed, err = store.LoadSeedFile(seedFile); err != nil {
			return nil, err
		}
	}
	return api.NewHandler(store.New(seed), log.Named("api")), nil
}

func run(ctx context.Context, opts options, log hclog.Logger) error {
	h, err := newHandler(opts.seedFile, log)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if opts.tokenTTL > 0 {
		go expireTokens(ctx, h, opts.tokenTTL, log)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", opts.addr, "seed", opts.seedFile)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdown)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func expireTokens(ctx context.Context, h *api.Handler, every time.Duration, log hclog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			h.ExpireTokens()
			log.Debug("tokens expired")
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
