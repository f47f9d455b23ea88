package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaeles-project/gofuzzer/core"
	"github.com/jaeles-project/gofuzzer/core/auth"
	"github.com/jaeles-project/gofuzzer/internal/config"
	"github.com/jaeles-project/gofuzzer/internal/logging"
)

// scan is the state shared by discover and test once flags are resolved.
type scan struct {
	cfg     config.ScanConfig
	stats   *core.ScanStats
	client  core.HTTPClient
	printer *core.Printer
	output  *core.Output
}

// prepare resolves flags and logging. Nothing touches the target until
// connect, so list files can be read and rejected first.
func prepare(cmd *cobra.Command, args []string) (*scan, error) {
	cfg, err := config.NewLoader(cmd).Load(args)
	if err != nil {
		return nil, err
	}
	logging.Configure(core.Logger, logging.Options{
		Debug:   cfg.Debug,
		Verbose: cfg.Verbose,
		Quiet:   cfg.Quiet,
		Output:  cmd.ErrOrStderr(),
	})
	if cfg.Target == "" {
		return nil, fmt.Errorf("no target given")
	}
	return &scan{cfg: cfg, stats: core.NewScanStats()}, nil
}

// connect opens the output file and builds the client, logging in when an
// auth provider is configured.
func (s *scan) connect(cmd *cobra.Command) error {
	var err error
	if s.cfg.Output != "" {
		if s.output, err = core.NewOutputPath(s.cfg.Output); err != nil {
			return err
		}
	}
	s.printer = core.NewPrinter(cmd.OutOrStdout(), s.cfg.Target, s.cfg.JSONOutput, s.output)
	s.client, err = newClient(commandContext(cmd), s.cfg, s.stats)
	return err
}

func (s *scan) close() {
	s.output.Close()
}

func (s *scan) options() core.Options {
	return core.Options{
		Target:   s.cfg.Target,
		MaxPages: s.cfg.MaxPages,
		Sitemap:  s.cfg.Sitemap,
	}
}

func newClient(ctx context.Context, cfg config.ScanConfig, stats *core.ScanStats) (core.HTTPClient, error) {
	opts := core.ClientOptions{
		Target:    cfg.Target,
		Timeout:   cfg.Timeout,
		Proxy:     cfg.Proxy,
		UserAgent: cfg.UserAgent,
		Headers:   cfg.Headers,
		Cookie:    cfg.Cookie,
		Retries:   cfg.Retries,
		Stats:     stats,
	}

	if cfg.CustomAuth == "" {
		return core.NewClient(cfg.Stateless, opts)
	}

	provider, err := auth.Lookup(cfg.CustomAuth)
	if err != nil {
		return nil, err
	}
	if cfg.Stateless {
		core.Logger.Warnf("--stateless is ignored with --custom-auth %s", provider.Name())
	}
	core.Logger.Infof("Logging in with %s", provider.Name())
	client, err := provider.Login(ctx, cfg.Target, opts)
	if err != nil {
		return nil, fmt.Errorf("%s login: %w", provider.Name(), err)
	}
	return client, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// readList loads a list file, returning fallback when path is empty.
func readList(path string, fallback []string) ([]string, error) {
	if path == "" {
		return fallback, nil
	}
	lines, err := core.ReadingLines(path)
	if err != nil {
		return nil, err
	}
	return lines, nil
}
