// Package summaries turns the saved project information dumps into short
// summaries using a chat-completion model.
//
// A project without an info file, or one the model declares uninformative,
// yields the NO INFO sentinel; a model failure yields ERROR. Sentinels are
// never written to disk.
package summaries
