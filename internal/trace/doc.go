// Package trace is the logging and tracing layer of codeabs.
//
// A batch abstracts thousands of functions on a worker pool; when one of them
// stalls or fails, the trace shows which unit was in which phase.
//
// # Usage
//
//	codeabs dataset --trace=- --trace-level=unit records.json
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a Scope; the Level decides which scopes are written:
//
//   - LevelPhase: ScopeDriver and ScopePhase (load, parse, classify, render)
//   - LevelUnit: adds ScopeUnit (one span per function or file)
//   - LevelDebug: adds ScopeNode (per-node classification decisions)
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithWorker(ctx, 3)
//	ctx, span := trace.Start(ctx, trace.ScopeUnit, "record#42(CVE-2019-0001).func")
//	defer span.End("")
//
// Events nested under a unit span carry the unit name and the worker, so a
// parse or classify event can be read without its parents.
package trace
