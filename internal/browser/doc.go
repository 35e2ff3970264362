// Package browser drives headless Chrome through go-rod.
//
// Every unit of work acquires its own Session from a Launcher and releases it
// through WithSession, which closes the page, the browser, and the launched
// process on every exit path. Optional page elements are reported as found
// flags rather than errors.
package browser
