// Package render evaluates template fields against a resolved context
// and runs the body through the configured transformation chain.
//
// The template language is deliberately logic-light: {{path}}
// interpolates a dotted path rooted at a namespace, and
// {{#each path}}…{{/each}} iterates a list value, rebinding this and
// @index for each element. Evaluation is strict: a reference that does
// not resolve is an error carrying the owning field name and the
// literal expression text. It never degrades to an empty string,
// because an empty recipient is indistinguishable from a real bug.
//
// Body transformation depends on body_format: markdown (default) runs
// the evaluated text through GitHub-flavored markdown to HTML, html
// treats it as HTML directly, text keeps it as-is with no HTML part.
// When a stylesheet or inline style block is configured, matching CSS
// rules are rewritten as inline style attributes, because mail clients
// strip <style> blocks. The plain-text fallback is flattened from the
// pre-inlining HTML.
//
// Rendering is a pure function of (context, template): identical
// inputs produce byte-identical output, and no stage writes anything.
package render
