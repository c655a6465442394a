// Package loader reads datasets from disk and coerces every supported
// format into the normalized value model the pipeline consumes.
//
// JSON, YAML, and TOML decode directly into value trees. CSV becomes a
// list of records keyed by the header row, with every cell a string;
// the separator is auto-detected from the first non-empty line unless
// overridden, and non-UTF-8 input falls back to Windows-1252 (or an
// explicit charset label). The loader never interprets the data — the
// join engine decides what shape each namespace must have.
package loader
