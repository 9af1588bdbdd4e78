// Package constants defines the constants used across the lshw normalization tools.
package constants

import "log/slog"

var (
	// Version is the version of the application.
	Version = "Dev"
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "lshw-normalize"

	// ReportExt is the extension of hardware report files.
	ReportExt = ".json"

	// DefaultOutputSuffix is the default suffix inserted before the extension of normalized files.
	DefaultOutputSuffix = ".normalized"

	// DefaultLogLevel is the default log level for the application.
	DefaultLogLevel = slog.LevelWarn

	// MaxDiagnosticValueLen is the maximum length of an observed value kept in a diagnostic record.
	MaxDiagnosticValueLen = 50

	// MaxExampleValues is the maximum number of example values kept per observed type in analysis.
	MaxExampleValues = 3
)
