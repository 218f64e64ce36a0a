// Package dropbox performs the atomic descriptor write into the shared
// submissions directory.
//
// Descriptors are staged under a temp suffix in the target directory and
// renamed onto their final name in one step, so the polling monitor observes
// either a complete file or nothing. Temp files left behind by aborted writes
// never match the monitor's naming pattern and are ignored.
package dropbox
