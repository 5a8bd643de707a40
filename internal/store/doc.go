// Package store persists alignment runs in SQLite.
//
// A run row records the inputs and settings of one alignment together with
// its outcome; its records are stored alongside with the line texts they map
// so a run can be inspected after the subtitle files have changed. Writers
// hold an exclusive file lock next to the database for the lifetime of the
// Store; readers share it.
package store
