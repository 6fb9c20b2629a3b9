package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestRunLevels(t *testing.T) {
	l := Run("error")
	assert.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.ErrorLevel))

	l = Run("not-a-level")
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestLogFromContext(t *testing.T) {
	process := Run("info")

	t.Run("falls back to process logger", func(t *testing.T) {
		assert.Same(t, process, Log(context.Background()))
	})

	t.Run("uses request logger", func(t *testing.T) {
		reqLogger := zap.NewNop().Sugar()
		ctx := WithLogger(context.Background(), reqLogger)
		assert.Same(t, reqLogger, Log(ctx))
	})
}
