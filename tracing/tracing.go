// Package tracing provides opt-in structured logging for deserialize
// calls, grounded on the sibling pack repo wippyai-wasm-runtime's use
// of go.uber.org/zap for all runtime diagnostics. The zero value is a
// no-op so the hot path never pays for logging unless a caller attaches
// a real logger via contiguous.WithLogger.
package tracing

import "go.uber.org/zap"

// Logger wraps a *zap.Logger. A nil or zero-value Logger is a no-op.
type Logger struct {
	z *zap.Logger
}

// NoOp returns a Logger that discards every event.
func NoOp() *Logger {
	return &Logger{}
}

// New wraps an existing zap logger.
func New(z *zap.Logger) *Logger {
	if z == nil {
		return NoOp()
	}
	return &Logger{z: z}
}

// Call logs one debug event per Deserialize/DeserializeCopy call.
func (l *Logger) Call(typeName string, dataLen, extraLen int, grew bool) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Debug("contiguous.deserialize",
		zap.String("type", typeName),
		zap.Int("data_len", dataLen),
		zap.Int("extra_len", extraLen),
		zap.Bool("grew", grew),
	)
}

// Error logs one warn event when a call fails.
func (l *Logger) Error(typeName string, err error) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Warn("contiguous.deserialize_failed",
		zap.String("type", typeName),
		zap.Error(err),
	)
}
