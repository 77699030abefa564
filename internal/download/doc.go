// Package download contains the per-track pipeline and the run manager
// that drives it.
//
// # Pipeline
//
// Pipeline turns one resolved (track, file handle) pair into a file on
// disk: fetch the decryption key, read the encrypted stream whole,
// decrypt it whole, drop the fixed container preamble, splice in a
// fresh comment header (title, album, one artist tag per artist), and
// write the result to the templated output path. A destination that
// already exists short-circuits before any network traffic, which makes
// re-runs idempotent.
//
// Per-track failures produce OutcomeSkipped and the run moves on; only
// a bad path template or an unwritable destination directory is fatal
// to the run (IsFatal distinguishes these).
//
// # Manager
//
// Manager owns one run end to end: Initialize classifies the input
// lines and accumulates the deduplicated track set, DownloadAll walks
// the set strictly sequentially and aggregates a Summary of
// written/existing/errored counts. Progress is reported through the
// same event callback pattern in both phases.
package download
