package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/censusacs/internal/cli"
	errs "github.com/matzehuels/censusacs/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes usage mistakes from configuration and upstream
// failures so scripts can tell them apart.
func exitCode(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidArgument, errs.ErrCodeUnsupportedYear:
		return 2
	case errs.ErrCodeConfiguration:
		return 3
	case errs.ErrCodeFetch:
		return 4
	}
	return 1
}
