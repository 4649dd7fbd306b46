// Package engine provides the mod lifecycle engine.
//
// The engine is the single entry point for state transitions: it validates
// a request against the catalog, performs the mutation through the archive
// installer or the settings store, and reports the outcome. Failures are
// returned and also recorded in a read-once message queue.
package engine

// The implementation is split across files:
// - lifecycle.go: install, uninstall, enable and disable
// - factory.go: dependency construction from configuration
