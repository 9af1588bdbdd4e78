package ingest

// Database is the consumer contract the processor uploads through.
type Database = database

// ReportID exposes the id derivation for testing.
var ReportID = reportID
