// Package screenshots captures a full-page PNG of every project website.
package screenshots
