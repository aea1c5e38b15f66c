// Package database provides SQLite-based storage for lessonpatch.
//
// This package implements the HistoryDB, a ledger of patch runs. Each
// processed document produces one row holding its outcome, the per-stage
// change counts, diagnostics, the backup path and content digests, so an
// operator can tell when a lesson was last patched and which snapshot to
// restore.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// storage because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode keeps the ledger consistent when a run is interrupted
package database
