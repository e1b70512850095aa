// Package recorder implements an instrumented key-value store backed by Redis
// and the official Redis Go client.
//
// Every value is stored under a freshly generated key, and every instrumented
// operation is journaled: the Store counts invocations per operation and keeps
// an append-only history of input/output pairs that can be replayed at any
// time. The journal lives in memory by default, or in Redis itself so the
// history survives process restarts.
package recorder
