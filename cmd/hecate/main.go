// Command hecate lowers IR module documents to toy-machine assembly.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/hecate/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}
	if !cli.IsReported(err) {
		fmt.Fprintln(os.Stderr, "hecate:", err)
	}

	// Errors cobra raises itself (bad flags, wrong argument count) are
	// usage errors.
	code := cli.ExitCommandError
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		code = cli.GetExitCode(err)
	}
	stop()
	os.Exit(code)
}
