// Package main hosts the submerge CLI entrypoint and command graph.
//
// The Cobra-based command tree loads subtitle tracks, runs the alignment
// engine, persists runs to the local store, and exposes diagnostics for the
// similarity oracles and split candidates. It centralizes configuration
// resolution and logger setup so subcommands can focus on presentation.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
