// Package history keeps a local SQLite log of descriptors this workstation
// has submitted.
//
// The log is a producer-side convenience for the `midrender history` command;
// the dropbox remains the only authority on what the farm received. Records
// are append-only and the database is safe to delete at any time. Schema
// setup is serialized with a lock file so concurrent producer processes on
// one host cannot race the migration.
package history
