// Package ingest uploads normalized hardware reports to a PostgreSQL database.
//
// Each report file is strictly decoded so unexpected trailing fields are
// surfaced before the document reaches the database, and inserted as jsonb.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"

	"github.com/fredericlepied/lshw-normalization/internal/fileutils"
)

var (
	errNoValidData      = errors.New("report file has no valid data")
	errUnexpectedFields = errors.New("file contains unexpected fields")
)

type database interface {
	Upload(ctx context.Context, id, node string, data map[string]any) error
}

// Stats summarizes one ingestion run.
type Stats struct {
	Uploaded int
	Failed   int
}

// Processor uploads normalized report files to the database.
type Processor struct {
	db  database
	log *slog.Logger
}

// New creates a new Processor instance.
func New(l *slog.Logger, db database) (*Processor, error) {
	if db == nil {
		return nil, fmt.Errorf("database must be set")
	}

	return &Processor{db: db, log: l}, nil
}

// report is the DCI wrapper around the lshw data.
type report struct {
	Hardware struct {
		Node   string         `mapstructure:"node"`
		Data   map[string]any `mapstructure:"data"`
		Error  string         `mapstructure:"error"`
		Extras map[string]any `mapstructure:",remain"`
	} `mapstructure:"hardware"`
	Extras map[string]any `mapstructure:",remain"`
}

// Process uploads every JSON file under the given paths.
// Per-file failures are logged and counted, never aborting the batch; only a
// cancelled context stops the run early.
func (p Processor) Process(ctx context.Context, paths []string) (Stats, error) {
	files, err := fileutils.CollectJSONFiles(paths)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get JSON files: %v", err)
	}
	if len(files) == 0 {
		return Stats{}, errors.New("no JSON files found")
	}

	var stats Stats
	for _, file := range files {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if err := p.file(ctx, file); err != nil {
			p.log.Warn("Failed to ingest file", "file", file, "error", err)
			stats.Failed++
			continue
		}

		stats.Uploaded++
		p.log.Info("Ingested file", "file", file)
	}

	return stats, nil
}

func (p Processor) file(ctx context.Context, file string) error {
	doc, err := fileutils.ReadJSONDocument(file)
	if err != nil {
		return err
	}

	rep, err := decodeReport(doc)
	if err != nil && !errors.Is(err, errUnexpectedFields) {
		return err
	}
	if errors.Is(err, errUnexpectedFields) {
		p.log.Warn("Report carries unexpected fields, ingesting anyway", "file", file, "error", err)
	}

	return p.db.Upload(ctx, reportID(p.log, file), rep.Hardware.Node, rep.Hardware.Data)
}

func decodeReport(doc any) (*report, error) {
	var rep report
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &rep,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create decoder: %v", err)
	}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("report does not match the expected shape: %v", err)
	}

	if rep.Hardware.Data == nil {
		return nil, errNoValidData
	}

	if len(rep.Extras) > 0 || len(rep.Hardware.Extras) > 0 {
		return &rep, fmt.Errorf("%w: %d at root, %d under hardware",
			errUnexpectedFields, len(rep.Extras), len(rep.Hardware.Extras))
	}

	return &rep, nil
}

// reportID derives the database id from the file stem when it is a UUID,
// generating a fresh one otherwise.
func reportID(l *slog.Logger, file string) string {
	id := filepath.Base(file)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	if err := uuid.Validate(id); err != nil {
		id = uuid.NewString()
		l.Debug("Report file name is not a UUID, generating one", "file", file, "id", id)
	}

	return id
}
