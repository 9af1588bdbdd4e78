package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fredericlepied/lshw-normalization/internal/validate"
)

func installValidateCmd(app *App) {
	validateCmd := &cobra.Command{
		Use:   "validate paths...",
		Short: "Validate lshw JSON files for type consistency",
		Long: `Validate that classified fields of lshw JSON files carry their expected JSON
type, without modifying any file.

Type mismatches on classified fields are errors. Fields outside the reference
shape, and string values that the normalizer would convert, are warnings. A file
passes when it has no errors; with --strict, warnings fail the verdict too, but
keep their severity in the report.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.config.Validate.Paths = args

			slog.Info("Running validate command")
			return app.validateRun()
		},
	}

	validateCmd.Flags().BoolVar(&app.config.Validate.Strict, "strict", false, "treat warnings as errors for the pass/fail verdict")
	validateCmd.Flags().StringVar(&app.config.Validate.ReportPath, "report", "", "write the JSON validation report to this path")

	app.cmd.AddCommand(validateCmd)
}

func (a App) validateRun() error {
	l := slog.Default()

	table, err := a.table()
	if err != nil {
		return err
	}

	cfg := a.config.Validate
	if err := cfg.Sanitize(l); err != nil {
		return err
	}

	report, err := validate.NewRunner(l, table, cfg).Run()
	if err != nil {
		return err
	}

	fmt.Print(report.Summary())
	if cfg.ReportPath != "" {
		if err := report.WriteReport(cfg.ReportPath); err != nil {
			return err
		}
	}

	if report.Failed() {
		return fmt.Errorf("%d files failed validation", report.FilesValidated-report.FilesPassed)
	}

	return nil
}
