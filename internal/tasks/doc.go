// Package tasks runs long release operations with real-time progress reporting.
//
// # Bulk Export
//
// [BulkExport] renders many releases to files with a worker pool:
//   - a rate limited producer feeds release ids to the workers
//   - each worker asks the [Exporter] for the rendered bytes and writes release-<id>.<format>
//   - one failed release does not stop the others
//   - an export_manifest.json summarizing every result is written last
//
// # Progress Reporting
//
// Operations accept an optional progress channel. The [ProgressUpdate] struct contains phase, step counters
// and a message. Updates use select with default to prevent blocking, so a slow or absent reader never
// stalls the export.
package tasks
