// Package session keeps per-user chat state around a qa.Pipeline.
//
// A Session holds at most one loaded video and the question/answer history
// for it. Work on one session is serialised; video setups across sessions
// share a bounded worker pool.
package session
