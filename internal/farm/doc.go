// Package farm locates the shared MidRender installation from producer-side
// state: the per-user config directory, the monitor-managed config.json, and
// the versioned farm root under the sync_root.
//
// Resolution never hard-fails. A missing or malformed config.json, an unset
// sync_root, and an absent farm directory each map to a distinct Status with
// its own remediation message; callers treat all three as "not connected".
// Resolution is re-run on every submission attempt because the monitor can
// appear or disappear at any point in a session.
package farm
