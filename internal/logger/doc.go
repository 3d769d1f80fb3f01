// Package logger wraps zap for the release builder:
//   - a global sugared logger writing a compact console format to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing and adjustment for the --log-level flag.
//
// Every service takes a context and pulls its logger from it, so a run's name
// and fields follow the call chain without explicit plumbing.
package logger
