// Package backup snapshots lesson documents before they are rewritten and
// performs the final write.
//
// A snapshot is a full copy of the document written next to it with a
// timestamped suffix ("lesson.html.backup_20250102_150405"). The snapshot is
// always completed before the original is touched, so a crash between the
// two leaves the original in its pre-patch state. Snapshots are never
// cleaned up automatically.
package backup
