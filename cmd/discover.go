package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jaeles-project/gofuzzer/core"
)

func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover <url>",
		Short: "Crawl and guess pages, then list their inputs",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiscover,
	}
	flags := cmd.Flags()
	flags.StringP("common-words", "", "", "Word list for page guessing")
	flags.StringP("extensions", "", "", "Extension list for page guessing (default .php and none)")
	flags.SortFlags = false
	_ = cmd.MarkFlagRequired("common-words")
	return cmd
}

func runDiscover(cmd *cobra.Command, args []string) error {
	s, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	opts := s.options()
	if opts.Words, err = readList(s.cfg.CommonWords, nil); err != nil {
		return err
	}
	if opts.Extensions, err = readList(s.cfg.Extensions, core.DefaultExtensions); err != nil {
		return err
	}

	if err := s.connect(cmd); err != nil {
		return err
	}

	engine := core.NewEngine(commandContext(cmd), s.client, opts, s.printer, s.stats)
	defer engine.Shutdown()

	d, err := engine.Discover()
	if d != nil {
		engine.Report(d)
	}
	return err
}
