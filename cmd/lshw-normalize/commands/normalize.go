package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fredericlepied/lshw-normalization/internal/constants"
	"github.com/fredericlepied/lshw-normalization/internal/normalize"
)

func installNormalizeCmd(app *App) {
	normalizeCmd := &cobra.Command{
		Use:   "normalize paths...",
		Short: "Normalize lshw JSON files for consistent types",
		Long: `Normalize lshw JSON files so classified fields carry their expected JSON type.

Paths may be files or directories; directories are walked recursively for .json
files. Files that are not DCI-wrapped lshw reports are skipped unless --any-json
is set. Normalization is idempotent: running it over already normalized files
changes nothing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.config.Normalize.Paths = args

			slog.Info("Running normalize command")
			return app.normalizeRun()
		},
	}

	normalizeCmd.Flags().StringVarP(&app.config.Normalize.OutputDir, "output-dir", "o", "", "directory for normalized files (default: next to the input)")
	normalizeCmd.Flags().StringVar(&app.config.Normalize.Suffix, "suffix", constants.DefaultOutputSuffix, "suffix inserted before the extension of output files; empty with no output dir overwrites in place")
	normalizeCmd.Flags().BoolVar(&app.config.Normalize.Strict, "strict", false, "abort the run on the first coercion failure or unreadable file")
	normalizeCmd.Flags().BoolVar(&app.config.Normalize.AnyJSON, "any-json", false, "process any JSON document, skipping the lshw report shape check")
	normalizeCmd.Flags().BoolVarP(&app.config.Normalize.Watch, "watch", "w", false, "after the initial pass, watch the input directories and normalize new files until interrupted")
	normalizeCmd.Flags().StringVar(&app.config.Normalize.ReportPath, "report", "", "write the JSON conversion record to this path")

	if err := normalizeCmd.MarkFlagDirname("output-dir"); err != nil {
		panic(fmt.Sprintf("failed to mark output-dir flag as directory: %v", err))
	}

	app.cmd.AddCommand(normalizeCmd)
}

func (a App) normalizeRun() error {
	l := slog.Default()

	table, err := a.table()
	if err != nil {
		return err
	}

	cfg := a.config.Normalize
	if err := cfg.Sanitize(l); err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Watch {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	runner := normalize.NewRunner(l, table, cfg)
	stats, runErr := runner.Run(ctx)

	fmt.Print(stats.Summary())
	if cfg.ReportPath != "" {
		if err := stats.WriteReport(cfg.ReportPath); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if n := len(stats.Errors); n > 0 {
		return fmt.Errorf("%d files could not be processed", n)
	}

	return nil
}
