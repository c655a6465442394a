// Package template defines the mail-merge template descriptor: its
// YAML file format, the source declarations that bind namespaces to
// datasets, and the pure resolution step that turns declarations into
// a validated plan of source descriptors.
//
// Resolution runs before any dataset is opened, so a shell can learn
// which namespaces to prompt for without touching the filesystem.
// A template is valid when exactly one source is primary, every join
// reference points at a declared namespace, no source joins to itself,
// and every join reference has the namespace.field shape.
package template
