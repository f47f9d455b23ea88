package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jaeles-project/gofuzzer/core"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <url>",
		Short: "Discover, then fuzz every input and report findings",
		Args:  cobra.ExactArgs(1),
		RunE:  runTest,
	}
	flags := cmd.Flags()
	flags.StringP("vectors", "", "", "Payload list")
	flags.StringP("sensitive", "", "", "List of strings that must never appear in a response")
	flags.StringP("sanitized-chars", "", "", "Characters that must come back escaped (default < and >)")
	flags.IntP("slow", "", int(core.DefaultSlowThreshold.Milliseconds()), "Slow response threshold (millisecond)")
	flags.StringP("common-words", "", "", "Word list for page guessing (no guessing without it)")
	flags.StringP("extensions", "", "", "Extension list for page guessing (default .php and none)")
	flags.IntP("concurrency", "c", 1, "Number of probes in flight (1 keeps output ordered)")
	flags.Float64P("rate", "", 0, "Maximum probes per second (0 = unlimited)")
	flags.SortFlags = false
	_ = cmd.MarkFlagRequired("vectors")
	_ = cmd.MarkFlagRequired("sensitive")
	return cmd
}

func runTest(cmd *cobra.Command, args []string) error {
	s, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	opts := s.options()
	opts.SlowThreshold = s.cfg.Slow
	opts.Concurrency = s.cfg.Concurrency
	opts.Rate = s.cfg.Rate
	if opts.Payloads, err = readList(s.cfg.Vectors, nil); err != nil {
		return err
	}
	if len(opts.Payloads) == 0 {
		return core.ErrNoPayloads
	}
	if opts.Sensitive, err = readList(s.cfg.Sensitive, nil); err != nil {
		return err
	}
	if opts.SanitizedChars, err = readList(s.cfg.SanitizedChars, core.DefaultSanitizedChars); err != nil {
		return err
	}
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
	return engine.Test()
}
