// Package processor orchestrates the document pipeline: extract text, chunk
// it, optionally summarize, optionally index for search, and record the run
// in the registry.
//
// DocumentProcessor is configured with functional options. Only the chunker
// is always present; every other stage degrades gracefully when its
// component is absent. ProcessBatch runs the pipeline concurrently over many
// files with per-file error isolation.
package processor
