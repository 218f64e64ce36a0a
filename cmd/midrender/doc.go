// Package main hosts the MidRender producer CLI entrypoint and command graph.
//
// The Cobra-based command tree reads project manifests exported by host
// integrations, resolves the shared farm location, and drops submission
// descriptors into the monitor's dropbox. It centralizes configuration
// resolution, logging setup, and history access so subcommands can focus on
// user experience instead of wiring.
package main
