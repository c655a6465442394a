// Package value defines the normalized semi-structured value model the
// whole pipeline operates on.
//
// Every source format is decoded into plain Go JSON trees: nil, bool,
// integer or float numbers, string, []any lists, and map[string]any
// records. This package layers the semantics the pipeline needs on top
// of those trees: join equality (numbers compare numerically across
// integer and float representations, strings by exact text, never
// coerced into each other), strict dotted-path lookup that reports
// "not found" as a typed outcome instead of a zero value, and the
// NoMatch marker that distinguishes an unmatched optional join from a
// namespace that was never declared.
package value
