// Package trace records what scadfmt spends its time on.
//
// Tracing is switched on from the command line:
//
//	scadfmt fmt --trace=- --trace-level=file src/
//
// Events are spans (begin/end pairs) and points. Each carries a scope:
//
//   - ScopeDriver: one CLI command or LSP request
//   - ScopeFile: one file of a batch
//   - ScopePass: lex, parse, format and check for one file
//
// The level decides which scopes reach the tracer; LevelError keeps nothing
// but makes the ring tracer available for a dump after a panic.
//
// A tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parent)
//	defer span.End("")
package trace
