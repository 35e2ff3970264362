// Package credentials resolves secrets such as API keys and OAuth tokens from
// environment variables or files declared as env:NAME or file:/path.
package credentials
