// Package commands contains the commands of the lshw-normalize command line tool.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fredericlepied/lshw-normalization/internal/analyze"
	"github.com/fredericlepied/lshw-normalization/internal/cli"
	"github.com/fredericlepied/lshw-normalization/internal/constants"
	"github.com/fredericlepied/lshw-normalization/internal/ingest/database"
	"github.com/fredericlepied/lshw-normalization/internal/normalize"
	"github.com/fredericlepied/lshw-normalization/internal/schema"
	"github.com/fredericlepied/lshw-normalization/internal/validate"
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int
	JSONLogs  bool

	SchemaPath string

	Normalize normalize.Config
	Validate  validate.Config
	Analyze   analyze.Config

	DBConfig      database.Config
	MigrationsDir string
}

// New creates a new App instance with default values.
func New() (*App, error) {
	a := App{}

	a.cmd = &cobra.Command{
		Use:   constants.CmdName,
		Short: "Normalize lshw JSON reports for consistent type handling",
		Long: `lshw-normalize rewrites lshw hardware inventory JSON files so the same logical
field always carries the same JSON type across a corpus, enabling bulk ingestion
into a schema-enforcing document store without type-mapping conflicts.

The normalize, validate and analyze commands share a single field classification
table, so they can never disagree on a field's expected type.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to strictly decode configuration into struct: %w", err)
			}

			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Update logging after loading config if necessary
			return nil
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	installNormalizeCmd(&a)
	installValidateCmd(&a)
	installAnalyzeCmd(&a)
	installIngestCmd(&a)
	installMigrateCmd(&a)
	a.installVersion()
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	cmd.PersistentFlags().BoolVar(&app.config.JSONLogs, "json-logs", false, "enable JSON formatted logs")
	cmd.PersistentFlags().StringVar(&app.config.SchemaPath, "schema", "", "path to a TOML classification table overriding the built-in field sets")

	if err := cmd.MarkPersistentFlagFilename("schema", "toml"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as filename: %v", err))
	}
}

// table returns the classification table for this run, shared by every tool.
func (a App) table() (schema.Table, error) {
	if a.config.SchemaPath == "" {
		return schema.Default(), nil
	}

	slog.Info("Using classification table override", "file", a.config.SchemaPath)
	return schema.Load(a.config.SchemaPath)
}

// Run executes the command and associated process, returning an error if any.
func (a App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}
