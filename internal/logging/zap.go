// Package logging adapts zap to the simulation engine's Logger interface.
package logging

import (
	"go.uber.org/zap"

	"github.com/finflow/simulation-engine/internal/simulation"
)

// ZapLogger implements simulation.Logger over a zap.SugaredLogger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{s: l.Sugar()}
}

// NewLogger builds a zap logger for the CLI: production config by default,
// development config (human-readable, debug level) when verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (z *ZapLogger) Debugf(format string, args ...any) { z.s.Debugf(format, args...) }
func (z *ZapLogger) Infof(format string, args ...any)  { z.s.Infof(format, args...) }
func (z *ZapLogger) Warnf(format string, args ...any)  { z.s.Warnf(format, args...) }
func (z *ZapLogger) Errorf(format string, args ...any) { z.s.Errorf(format, args...) }

var _ simulation.Logger = (*ZapLogger)(nil)
