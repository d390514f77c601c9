// Package diagnostics provides driven.Diagnostics sinks.
//
//   - LoggerSink: forwards events to the verbose CLI logger
//   - ZapSink: structured events through zap
//   - Collector: keeps events in memory for reports and tests
//   - Nop: discards events
package diagnostics
