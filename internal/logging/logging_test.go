package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel(" DEBUG "))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestConfigure_RespectsLevel(t *testing.T) {
	t.Cleanup(func() { Configure(Options{}) })

	Configure(Options{Level: "warn", JSON: true})
	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, L().Core().Enabled(zapcore.WarnLevel))

}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvJSON, "nope")
	opts, hasLevel, hasJSON := OptionsFromEnv()
	assert.True(t, hasLevel)
	assert.False(t, hasJSON)
	assert.Equal(t, "debug", opts.Level)

	t.Setenv(EnvLevel, "")
	t.Setenv(EnvJSON, "true")
	opts, hasLevel, hasJSON = OptionsFromEnv()
	assert.False(t, hasLevel)
	assert.True(t, hasJSON)
	assert.True(t, opts.JSON)
}

func TestReplace(t *testing.T) {
	t.Cleanup(func() { Configure(Options{}) })

	core, logs := observer.New(zapcore.InfoLevel)
	Replace(zap.New(core))
	L().Info("evaluated", zap.String("class", "ROTATION"))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "evaluated", entries[0].Message)
		assert.Equal(t, "ROTATION", entries[0].ContextMap()["class"])
	}

	Replace(nil)
	assert.NotNil(t, L())
}
