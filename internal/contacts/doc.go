// Package contacts crawls each project website for email addresses and social
// network links and appends one CSV row per project to a shared contact list.
package contacts
