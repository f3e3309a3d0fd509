// Package transform defines the caller-side interface to the basis engine.
// Runner stages, the CLI and the terminal form use a transform.Client and
// do not care whether the engine runs in-process or behind gRPC.
package transform
