// Package batch holds the plumbing shared by the per-project steps: loading the
// actionable rows, fanning them out to the worker pool, reporting outcomes, and
// visiting a project website in its own browser session.
package batch
