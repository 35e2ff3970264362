// Package info saves a plain-text dump of every project website for the
// summarization step.
package info
