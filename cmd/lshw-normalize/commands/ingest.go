package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fredericlepied/lshw-normalization/internal/ingest"
	"github.com/fredericlepied/lshw-normalization/internal/ingest/database"
)

func installIngestCmd(app *App) {
	ingestCmd := &cobra.Command{
		Use:   "ingest paths...",
		Short: "Upload normalized lshw reports to a PostgreSQL database",
		Long: `Upload normalized lshw JSON reports to a PostgreSQL database as jsonb rows.

Files are strictly decoded so unexpected trailing fields are surfaced first.
Per-file failures are logged and counted without aborting the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Running ingest command")
			return app.ingestRun(args)
		},
	}

	addDBFlags(ingestCmd, &app.config.DBConfig)

	app.cmd.AddCommand(ingestCmd)
}

func addDBFlags(cmd *cobra.Command, config *database.Config) {
	cmd.Flags().StringVar(&config.Host, "db-host", "localhost", "database host")
	cmd.Flags().IntVar(&config.Port, "db-port", 5432, "database port")
	cmd.Flags().StringVar(&config.User, "db-user", "", "database user")
	cmd.Flags().StringVar(&config.Password, "db-password", "", "database password")
	cmd.Flags().StringVar(&config.DBName, "db-name", "", "database name")
	cmd.Flags().StringVar(&config.SSLMode, "db-sslmode", "", "database SSL mode")
}

func (a App) ingestRun(paths []string) error {
	ctx := context.Background()

	db, err := database.Connect(ctx, a.config.DBConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	proc, err := ingest.New(slog.Default(), db)
	if err != nil {
		return fmt.Errorf("failed to create report processor: %v", err)
	}

	stats, err := proc.Process(ctx, paths)
	fmt.Printf("Ingested %d reports, %d failed\n", stats.Uploaded, stats.Failed)
	if err != nil {
		return err
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d reports could not be ingested", stats.Failed)
	}

	return nil
}
