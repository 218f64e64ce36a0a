// Package config loads, normalizes, and validates producer-side midrender
// settings.
//
// This is the submitter's own TOML file: default template, chunk size,
// priority and cooldown, the farm product/generation pair, history and
// logging knobs. It is distinct from the monitor-written config.json that
// package farm resolves; nothing here is shared across hosts.
//
// Obtain settings through Load so downstream code sees expanded paths and
// validated values.
package config
