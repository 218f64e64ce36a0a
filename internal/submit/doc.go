// Package submit turns host scene state into descriptor files in the
// dropbox.
//
// The Submitter runs one user action end to end: cooldown guard, farm
// resolution, document save, batch construction, atomic writes, history
// recording. Batches assign strictly increasing millisecond timestamps so
// every descriptor in one action gets a unique filename without cross-host
// coordination.
package submit
