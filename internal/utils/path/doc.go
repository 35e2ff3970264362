// Package pathutils expands user-facing path shortcuts in configured file locations.
package pathutils
