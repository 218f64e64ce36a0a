// Package descriptor defines the versioned job submission record the monitor
// consumes from the dropbox.
//
// A Descriptor is the complete wire entity: schema version, template identity,
// job metadata, frame range, scheduling knobs, and the template override map.
// Filenames embed the millisecond timestamp and submitting host so descriptors
// from uncoordinated producers never collide. The JSON shape and the filename
// format are a contract with the monitor; changes here require bumping Version
// and a matching monitor-side parser.
package descriptor
