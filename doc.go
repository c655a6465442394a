// Package mailnir orchestrates the mail-merge pipeline: template
// descriptors, dataset joins, rendering, and validation.
//
// Run is the strict path used for sending: any join or render failure
// on any entry aborts the whole batch with an indexed error. Preview
// is the lenient path used before sending: every entry is rendered
// best-effort and the result carries a full validation report, so a
// user sees all problems across the batch in one pass.
//
// The building blocks live under pkg/ and are usable on their own:
// pkg/loader reads datasets, pkg/template parses descriptors, pkg/join
// builds per-entry contexts, pkg/render produces emails, pkg/validate
// checks them, and pkg/sender delivers them.
package mailnir
