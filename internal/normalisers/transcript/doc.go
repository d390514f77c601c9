// Package transcript decodes newline-delimited JSON conversation transcripts.
//
// Each line is matched against an ordered list of record shapes and the
// first shape that accepts it produces a domain.Message. Lines that are not
// JSON, or that no shape accepts, are reported as skipped and never abort
// parsing.
package transcript
