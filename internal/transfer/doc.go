// Package transfer copies source images to their destination paths.
//
// A copy writes into a temporary file in the destination directory, syncs
// it, carries over the source modification time and renames it over the
// destination. An existing destination is replaced. Readers never observe
// a partially written destination file.
//
// Reason maps a copy failure to a short human-readable cause for per-file
// status lines.
package transfer
