package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dupfind/internal/config"
	"dupfind/internal/finder"
	"dupfind/internal/logging"
	"dupfind/internal/report"
	"dupfind/internal/verify"
)

const (
	exitIO         = 1
	exitAllocation = 2
	exitUsage      = 64
)

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

type options struct {
	configPath string
	chunkSize  int
	format     string
	logLevel   string
	progress   bool
	summary    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dupfind [flags] dir1 [dir2 ... dirN]",
		Short: "Find groups of byte-identical files",
		Long: "Recursively scan one or more directories and print every group of files\n" +
			"with identical content, largest size first. Hard links to the same file\n" +
			"are counted once and symbolic links are not followed.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return &usageError{err: finder.ErrNoRoots}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file path")
	flags.IntVar(&opts.chunkSize, "chunk-size", config.DefaultChunkSize, "bytes read per file per comparison step")
	flags.StringVarP(&opts.format, "format", "f", config.FormatText, "output format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "diagnostic level: debug, info, warn, error")
	flags.BoolVar(&opts.progress, "progress", false, "show verification progress on stderr")
	flags.BoolVar(&opts.summary, "summary", false, "print a summary line on stderr")

	return cmd
}

func run(cmd *cobra.Command, opts *options, roots []string, stdout, stderr io.Writer) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return &usageError{err: fmt.Errorf("failed to load config: %w", err)}
	}

	// Flags given on the command line win over the config file.
	flags := cmd.Flags()
	if flags.Changed("chunk-size") {
		cfg.ChunkSize = opts.chunkSize
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("progress") {
		cfg.Progress = opts.progress
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err: err}
	}

	log, err := logging.New(stderr, cfg.LogLevel)
	if err != nil {
		return &usageError{err: err}
	}
	if opts.configPath != "" {
		if _, err := os.Stat(opts.configPath); os.IsNotExist(err) {
			log.Warn().Str("path", opts.configPath).Msg("config file not found, using defaults")
		}
	}

	f := finder.New(cfg, log)
	if cfg.Progress {
		f.SetProgressOutput(stderr)
	}

	result, err := f.Run(roots)
	if err != nil {
		log.Error().Err(err).Msg("scan aborted")
		return err
	}

	if err := report.Write(stdout, result.Groups, cfg.Format); err != nil {
		return err
	}
	if opts.summary {
		fmt.Fprintln(stderr, report.Summary(result))
	}
	return nil
}

// exitCode maps a failed run to the process status for its error class.
func exitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, verify.ErrAllocation):
		return exitAllocation
	default:
		return exitIO
	}
}

func main() {
	err := newRootCmd(os.Stdout, os.Stderr).Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usage *usageError
		if errors.As(err, &usage) {
			fmt.Fprintf(os.Stderr, "usage: dupfind dir1 [dir2 ... [dirN]]\n")
		}
	}
	os.Exit(exitCode(err))
}
