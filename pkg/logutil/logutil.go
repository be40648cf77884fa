// Package logutil centralizes the "fall back to a default logger
// factory" boilerplate repeated across the reference stack's managers
// (e.g. pkg/im.Engine, test/integration.TestPair): cmd/interlock-core
// asks a logging.LoggerFactory for a named logging.LeveledLogger per
// component and hands that logger to icm and fm, falling back to the
// stdlib-backed default factory when the caller supplies none.
package logutil

import "github.com/pion/logging"

// New returns factory.NewLogger(name), or a logger from
// logging.NewDefaultLoggerFactory() if factory is nil. Unlike the
// reference stack's "if nil, logging is disabled" variant (pkg/im
// EngineConfig), every component here always wants somewhere to log to
// — disabled logging would silently swallow fault-event and connection
// diagnostics this system exists to produce.
func New(factory logging.LoggerFactory, name string) logging.LeveledLogger {
	if factory == nil {
		factory = logging.NewDefaultLoggerFactory()
	}
	return factory.NewLogger(name)
}
