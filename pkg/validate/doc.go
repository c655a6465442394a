// Package validate re-derives correctness guarantees over rendered
// email instances, independently of rendering, so every failure is
// attributable to a specific entry and field.
//
// Validation is data, not control flow: checks accumulate into
// per-entry issue lists, the batch never aborts, and the report always
// covers all N entries even when every one of them fails. Join
// problems recorded during context building are merged into the same
// per-entry lists so a shell has one diagnostics surface.
package validate
