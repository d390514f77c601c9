// Package normalisers turns raw transcript bytes into domain messages.
// Each record shape a transcript may contain is recognised by the
// transcript normaliser; unusable lines are reported, never fatal.
package normalisers
