// Package pipeline runs a YAML-declared sequence of harvest steps in order,
// stopping at the first step that fails.
package pipeline
