// Package scene abstracts host-application document state behind a read-only
// Host interface so the submission builder stays host-agnostic.
//
// A Host exposes the current frame range, the resolved absolute output path,
// and, where the application supports them, an ordered variant (take) tree.
// The only mutating operation is Save, invoked once per batch so descriptors
// reference an up-to-date document on disk.
//
// ManifestHost is the filesystem-backed adapter: host integrations export a
// small TOML manifest describing their document and the CLI submits from it.
package scene
