// Package directory scrapes the paginated public project directory, following
// every listing to its detail page to pick up the project website.
package directory
