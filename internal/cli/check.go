package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/hecate/internal/ir"
	"github.com/roach88/hecate/internal/loader"
)

// CheckResult summarizes one module document.
type CheckResult struct {
	Path         string    `json:"path"`
	Module       string    `json:"module,omitempty"`
	ModuleHash   string    `json:"module_hash,omitempty"`
	Functions    int       `json:"functions"`
	Declarations int       `json:"declarations"`
	Globals      int       `json:"globals"`
	Blocks       int       `json:"blocks"`
	Instructions int       `json:"instructions"`
	Error        *CLIError `json:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <module-or-dir>",
		Short: "Load module documents without lowering them",
		Long: `Load one module document, or every .yaml, .yml and .cue file under a
directory, and report what each contains. Loading resolves every name;
it does not verify that the IR is well formed.

Exit codes:
  0 - Every document loaded
  2 - A document failed to load, or the path is unusable`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	files, err := findModuleFiles(path)
	if err != nil {
		code := loader.ErrCodeReadFailed
		if os.IsNotExist(err) {
			code = ErrCodeNotFound
		}
		_ = formatter.Error(code, err.Error(), nil)
		return reportedExit(ExitCommandError, "reading input", err)
	}
	if len(files) == 0 {
		msg := fmt.Sprintf("no module documents found in %s", path)
		_ = formatter.Error(ErrCodeNoModules, msg, nil)
		return reportedExit(ExitCommandError, msg, nil)
	}

	results := make([]CheckResult, 0, len(files))
	failed := 0
	for _, f := range files {
		r := checkFile(f)
		if r.Error != nil {
			failed++
		}
		results = append(results, r)
	}

	if formatter.Format == "json" {
		if failed > 0 {
			_ = formatter.Error(loader.ErrCodeGeneric, fmt.Sprintf("%d of %d module(s) failed to load", failed, len(files)), results)
		} else {
			_ = formatter.Success(results)
		}
	} else {
		outputCheckText(formatter, results)
	}

	if failed > 0 {
		return reportedExit(ExitCommandError, fmt.Sprintf("%d module(s) failed to load", failed), nil)
	}
	return nil
}

func checkFile(path string) CheckResult {
	r := CheckResult{Path: path}
	m, err := loader.Load(path)
	if err != nil {
		code, message, loc := describeLoadError(err)
		r.Error = &CLIError{Code: code, Message: message}
		if loc != nil {
			r.Error.Details = loc
		}
		return r
	}

	r.Module = m.Name
	r.ModuleHash, _ = ir.ModuleHash(m)
	r.Globals = len(m.Globals())
	for _, fid := range m.Funcs() {
		fn := m.Func(fid)
		if fn.IsDeclaration() {
			r.Declarations++
			continue
		}
		r.Functions++
		r.Blocks += len(fn.Blocks)
		for _, bid := range fn.Blocks {
			r.Instructions += len(m.Block(bid).Insts)
		}
	}
	return r
}

func outputCheckText(formatter *OutputFormatter, results []CheckResult) {
	w := formatter.Writer
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(w, "✗ %s\n", r.Path)
			if loc, ok := r.Error.Details.(*ErrorLocation); ok {
				fmt.Fprintf(w, "  %s\n", loc)
			}
			fmt.Fprintf(w, "  %s: %s\n", r.Error.Code, r.Error.Message)
			continue
		}
		fmt.Fprintf(w, "✓ %s: module %s, %d function(s), %d declaration(s), %d global(s), %d block(s), %d instruction(s)\n",
			r.Path, r.Module, r.Functions, r.Declarations, r.Globals, r.Blocks, r.Instructions)
		formatter.VerboseLog("  %s hash %s", r.Module, r.ModuleHash)
	}
}

// findModuleFiles returns path itself when it is a file, or every module
// document under it, sorted, when it is a directory.
func findModuleFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && loader.IsModuleFile(p) {
			files = append(files, p)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
