// Package sender turns rendered emails into provider-ready messages
// and delivers them through a pluggable Sender interface.
//
// Build converts one rendered email into an outbound message: address
// lists are parsed and normalized, attachment files are read from disk
// and their MIME types resolved. SendAll delivers a whole batch with
// bounded parallelism, collecting a per-message outcome instead of
// aborting on the first failure.
//
// Provider adapters live in subpackages; see sender/resend.
package sender
