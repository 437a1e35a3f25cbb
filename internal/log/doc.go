// Package log provides the structured logger shared by every component. It
// wraps zerolog with a console writer on stderr for interactive use and
// carries a per-invocation run id through context.
package log
