package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/hecate/internal/codegen"
	"github.com/roach88/hecate/internal/ir"
	"github.com/roach88/hecate/internal/loader"
	"github.com/roach88/hecate/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output      string // output file path; stdout when empty
	Entry       string // entry function name
	Inspect     string // debug intrinsic name
	InitStrings bool   // emit the globalinit block
	DB          string // translation store path; no caching when empty
}

// CompileResult is the JSON payload of a successful compile.
type CompileResult struct {
	Module        string         `json:"module"`
	ModuleHash    string         `json:"module_hash"`
	Output        string         `json:"output,omitempty"`
	Assembly      string         `json:"assembly,omitempty"`
	Report        codegen.Report `json:"report"`
	Cached        bool           `json:"cached"`
	TranslationID string         `json:"translation_id,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <module>",
		Short: "Lower a module document to assembly",
		Long: `Lower a YAML or CUE module document to toy-machine assembly.

The output file is opened before any lowering happens, so an unusable
path fails without doing any work. With --db, translations are recorded
in a SQLite store and an identical module and option set is served from
it instead of being lowered again.

Exit codes:
  0 - Assembly written
  2 - Command error (unreadable or invalid module, unusable output path)

Examples:
  hecate compile prog.yaml
  hecate compile prog.cue -o prog.s --entry start
  hecate compile prog.yaml --init-strings --db hecate.db
  hecate compile prog.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().StringVar(&opts.Entry, "entry", codegen.DefaultEntryPoint, "entry function that ends with halt")
	cmd.Flags().StringVar(&opts.Inspect, "inspect", codegen.DefaultInspectIntrinsic, "function lowered to the inspect instruction")
	cmd.Flags().BoolVar(&opts.InitStrings, "init-strings", false, "emit a globalinit block that materializes string globals")
	cmd.Flags().StringVar(&opts.DB, "db", "", "translation store path (SQLite)")

	return cmd
}

func runCompile(opts *CompileOptions, input string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := opts.Logger(cmd.ErrOrStderr())

	var out io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("cannot open output file %s: %v", opts.Output, err), nil)
			return reportedExit(ExitCommandError, "opening output file", err)
		}
		defer f.Close()
		out = f
	}

	m, err := loader.Load(input)
	if err != nil {
		return formatter.LoadFailure(err)
	}
	formatter.VerboseLog("Loaded module %s: %d function(s), %d global(s)", m.Name, len(m.Funcs()), len(m.Globals()))

	hash, err := ir.ModuleHash(m)
	if err != nil {
		return outputCompileError(formatter, loader.ErrCodeGeneric, fmt.Sprintf("hashing module: %v", err))
	}

	cgOpts := codegen.Options{
		EntryPoint:       opts.Entry,
		InspectIntrinsic: opts.Inspect,
		InitStrings:      opts.InitStrings,
		Logger:           logger,
	}
	result := &CompileResult{Module: m.Name, ModuleHash: hash, Output: opts.Output}

	var assembly string
	if opts.DB != "" {
		assembly, err = translateWithStore(commandContext(cmd), opts, input, m, hash, cgOpts, result, logger)
		if err != nil {
			return outputCompileError(formatter, ErrCodeStore, err.Error())
		}
	} else {
		var report *codegen.Report
		assembly, report = codegen.TranslateString(m, cgOpts)
		result.Report = *report
	}

	if opts.Output != "" || formatter.Format != "json" {
		if _, err := io.WriteString(out, assembly); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing assembly: %v", err))
		}
	}

	return outputCompileSuccess(formatter, result, assembly)
}

// translateWithStore serves the translation from the store when the same
// module and options were recorded before, and records it otherwise.
func translateWithStore(ctx context.Context, opts *CompileOptions, input string, m *ir.Module, hash string, cgOpts codegen.Options, result *CompileResult, logger *slog.Logger) (string, error) {
	st, err := store.Open(opts.DB)
	if err != nil {
		return "", fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	key, err := store.OptionsKey(cgOpts)
	if err != nil {
		return "", fmt.Errorf("options key: %w", err)
	}

	tr, assembly, err := st.Lookup(ctx, hash, key)
	switch {
	case err == nil:
		logger.Debug("translation served from store", "id", tr.ID, "module_hash", hash)
		result.Report = tr.Report
		result.Cached = true
		result.TranslationID = tr.ID
		return assembly, nil
	case !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("looking up translation: %w", err)
	}

	assembly, report := codegen.TranslateString(m, cgOpts)
	tr = &store.Translation{
		Source:     input,
		ModuleName: m.Name,
		ModuleHash: hash,
		Options:    key,
		Report:     *report,
	}
	if err := st.Record(ctx, tr, assembly); err != nil {
		return "", fmt.Errorf("recording translation: %w", err)
	}
	logger.Debug("translation recorded", "id", tr.ID, "seq", tr.Seq)

	result.Report = *report
	result.TranslationID = tr.ID
	return assembly, nil
}

// outputCompileSuccess reports a successful compile. Text mode without an
// output file has already written the assembly to stdout and prints nothing
// else.
func outputCompileSuccess(formatter *OutputFormatter, result *CompileResult, assembly string) error {
	if formatter.Format == "json" {
		if result.Output == "" {
			result.Assembly = assembly
		}
		return formatter.Success(result)
	}

	if result.Output != "" {
		suffix := ""
		if result.Cached {
			suffix = " (cached)"
		}
		fmt.Fprintf(formatter.Writer, "✓ Lowered %d function(s) to %s%s\n", result.Report.Functions, result.Output, suffix)
	}
	if result.Report.Unhandled > 0 {
		formatter.VerboseLog("%d instruction(s) not handled", result.Report.Unhandled)
	}
	if result.Report.FallbackBindings > 0 {
		formatter.VerboseLog("register pool exhausted: %d value(s) share %s", result.Report.FallbackBindings, codegen.FallbackRegister)
	}
	return nil
}

// outputCompileError outputs a single compile error.
func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return reportedExit(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
