// Package join builds one rendering context per primary dataset entry
// by resolving every declared namespace against the loaded sources.
//
// The primary namespace binds the current entry record, global
// namespaces bind their whole dataset, and joined namespaces bind the
// record(s) whose key fields equal the corresponding fields already in
// the context. Matching is composite AND over all key pairs using
// normalized-value equality: numbers match numerically, strings by
// exact text, and a string never matches a number.
//
// One algorithm serves both call sites. BuildContexts is the strict
// form used on the send path: the first missing or ambiguous 1:1 join
// fails the batch with an error naming the entry. BuildContextsLenient
// is the preview form: every entry still produces a context, problems
// are collected as per-entry issues, an unmatched 1:1 namespace is
// bound to value.NoMatch, and an ambiguous one is bound to its first
// match so the preview stays renderable.
package join
