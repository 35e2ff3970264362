// Package ui provides helpers for human-readable console output.
//
// It formats per-project unit events into concise messages, drives a terminal
// progress bar while a batch drains, and renders the closing outcome report,
// while detailed telemetry continues to flow through structured loggers.
package ui
