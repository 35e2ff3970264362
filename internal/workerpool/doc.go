// Package workerpool runs independent per-row units on a bounded set of goroutines.
//
// Results are handed to a sink from a single goroutine in completion order, so
// sinks may write files or update progress without their own locking.
package workerpool
