// Package main hosts the airstage CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into enqueue
// requests, pump runs, queue maintenance, station profile edits, and
// configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
