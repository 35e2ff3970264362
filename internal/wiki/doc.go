// Package wiki publishes project summaries as MediaWiki articles.
//
// Requests are signed with OAuth1 owner-only credentials. Every generated page
// is also saved locally so a dry run can be reviewed before publishing.
package wiki
