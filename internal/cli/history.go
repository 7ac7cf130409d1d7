package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/hecate/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string // translation store path
	Limit int    // newest N translations; 0 lists all
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded translations",
		Long: `List translations recorded by compile --db, newest first.

Examples:
  hecate history --db hecate.db
  hecate history --db hecate.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "translation store path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of translations to list (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening would create an empty store; a missing file is a typo.
	if _, err := os.Stat(opts.DB); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("store not found: %s", opts.DB), nil)
		return reportedExit(ExitCommandError, "opening store", err)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return reportedExit(ExitCommandError, "opening store", err)
	}
	defer st.Close()

	translations, err := st.List(commandContext(cmd), opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return reportedExit(ExitCommandError, "listing translations", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(translations)
	}

	w := formatter.Writer
	if len(translations) == 0 {
		fmt.Fprintln(w, "No translations recorded.")
		return nil
	}
	for _, tr := range translations {
		fmt.Fprintf(w, "#%d %s %s (%s) %d function(s), %d unhandled\n",
			tr.Seq, tr.ID, tr.Source, tr.ModuleName, tr.Report.Functions, tr.Report.Unhandled)
		formatter.VerboseLog("  module %s options %s output %s", tr.ModuleHash, tr.Options, tr.OutputHash)
	}
	return nil
}
