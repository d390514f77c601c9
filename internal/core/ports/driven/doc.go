// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TranscriptStore: Directory listing and file reads under the transcripts root
//   - TranscriptParser: Decodes transcript records into messages
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TranscriptCache: Parsed transcript cache. Without it every query parses every file.
//   - Diagnostics: Receives skipped lines and unreadable files. Without it they are dropped.
//   - ChangeWatcher: File change notification. Without it clients are never pushed updates.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
