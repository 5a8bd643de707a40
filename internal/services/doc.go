// Package services defines shared utilities consumed by the alignment run
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run statuses (failed, rejected, canceled).
//
// Use these helpers when wiring new pipeline steps so operational behaviour
// (error handling, observability) stays uniform across commands.
package services
