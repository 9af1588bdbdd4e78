package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fredericlepied/lshw-normalization/internal/analyze"
)

func installAnalyzeCmd(app *App) {
	analyzeCmd := &cobra.Command{
		Use:   "analyze paths...",
		Short: "Detect type inconsistencies across lshw JSON files",
		Long: `Scan lshw JSON files and report every field observed with more than one JSON
type across the corpus, or present in some files and absent in others, with
per-type occurrence counts and example values.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.config.Analyze.Paths = args

			slog.Info("Running analyze command")
			return app.analyzeRun()
		},
	}

	analyzeCmd.Flags().StringVar(&app.config.Analyze.ReportPath, "report", "", "write the JSON analysis report to this path")

	app.cmd.AddCommand(analyzeCmd)
}

func (a App) analyzeRun() error {
	l := slog.Default()

	table, err := a.table()
	if err != nil {
		return err
	}

	cfg := a.config.Analyze
	if err := cfg.Sanitize(l); err != nil {
		return err
	}

	report, failed, err := analyze.Run(l, analyze.New(l, table), cfg)
	if err != nil {
		return err
	}

	fmt.Print(report.Text())
	if cfg.ReportPath != "" {
		if err := report.WriteReport(cfg.ReportPath); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d files could not be analyzed", failed)
	}

	return nil
}
