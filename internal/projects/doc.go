// Package projects owns the canonical project list.
//
// It reads the directory and partner CSV exports, maps their rows onto the
// shared Record shape, merges them with first-source priority, and writes the
// deduplicated result. The file naming helpers shared by every downstream
// step also live here so that info, summary, screenshot, and wiki files agree
// on a single stem per project.
package projects
