package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestGetLevel(t *testing.T) {
	t.Setenv(EnvPrefix, "W")
	t.Setenv(EnvPrefix+"_Reader", "debug")

	assert.Equal(t, 'D', GetLevel("Reader"))
	assert.Equal(t, 'W', GetLevel("Payload"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		lvl  rune
		want zapcore.Level
	}{
		{'D', zapcore.DebugLevel},
		{'V', zapcore.DebugLevel},
		{'I', zapcore.InfoLevel},
		{'W', zapcore.WarnLevel},
		{'E', zapcore.ErrorLevel},
		{'F', zapcore.DPanicLevel},
		{0, zapcore.InfoLevel},
		{'x', zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.lvl), "nível %q", tt.lvl)
	}
}

func TestNew(t *testing.T) {
	t.Setenv(EnvPrefix+"_Emv", "E")

	logger := New("Emv")
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
