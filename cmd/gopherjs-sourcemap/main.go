// Command gopherjs-sourcemap merges, composes and queries JavaScript source
// maps.
//
//	gopherjs-sourcemap concat -o bundle.js a.js b.js
//	gopherjs-sourcemap compose -o app.min.js.map app.min.js.map app.js.map
//	gopherjs-sourcemap lookup app.min.js.map 1:2042
//	gopherjs-sourcemap offset app.js.map --line 1 --by 3
//
// Defaults for some flags are taken from the GOPHERJS_SOURCEMAP environment
// variable, e.g. GOPHERJS_SOURCEMAP=verbose,cache=false.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gopherjs/sourcemap"
	"github.com/gopherjs/sourcemap/cache"
	"github.com/gopherjs/sourcemap/internal/envflags"
	"github.com/gopherjs/sourcemap/internal/errorList"
)

// options shared by all commands.
type options struct {
	verbose     bool
	cache       bool
	maxErrors   int
	projectRoot string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	var errs errorList.ErrorList
	switch {
	case err == nil:
		return
	case errors.As(err, &errs):
		fmt.Fprintln(os.Stderr, errs.Details())
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags, envErr := envflags.FromEnv()
	opts := &options{}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = sourcemap.DefaultProjectRoot
	}

	rootCmd := &cobra.Command{
		Use:           "gopherjs-sourcemap",
		Short:         "Merge, compose and query JavaScript source maps",
		Version:       sourcemap.LibraryVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			log.SetOutput(stderr)
			if opts.verbose {
				log.SetLevel(log.InfoLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", flags.Verbose, "log cache and progress information")
	pf.BoolVar(&opts.cache, "cache", flags.Cache, "cache decoded input maps between runs")
	pf.IntVar(&opts.maxErrors, "max-errors", flags.MaxErrors, "maximum number of input errors to report, 0 for no limit")
	pf.StringVar(&opts.projectRoot, "project-root", cwd, "directory source paths are made relative to")

	rootCmd.AddCommand(
		newComposeCmd(opts),
		newConcatCmd(opts),
		newLookupCmd(opts),
		newOffsetCmd(opts),
		newClearCacheCmd(),
	)
	return rootCmd
}

func newClearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove all cached source maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cache.Clear()
		},
	}
}
