package logging

import (
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level string
	JSON  bool
}

var def atomic.Pointer[zap.Logger]

func init() {
	def.Store(build(Options{}))
}

func Configure(opts Options) {
	def.Store(build(opts))
}

// Replace installs l as the process logger. Tests use it with zaptest or
// observer cores.
func Replace(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	def.Store(l)
}

func build(opts Options) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(parseLevel(opts.Level)))
	return zap.New(core)
}

func parseLevel(s string) zapcore.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func L() *zap.Logger {
	return def.Load()
}

func Sync() { _ = def.Load().Sync() }

// Environment fallbacks read by the config loader when the config file
// and BASIS__LOGGING__* leave a setting unset.
const (
	EnvLevel = "BASIS_LOG_LEVEL"
	EnvJSON  = "BASIS_LOG_JSON"
)

// OptionsFromEnv reads EnvLevel and EnvJSON; hasLevel and hasJSON report
// which of them were set to a usable value.
func OptionsFromEnv() (opts Options, hasLevel, hasJSON bool) {
	if v, ok := os.LookupEnv(EnvLevel); ok && strings.TrimSpace(v) != "" {
		opts.Level, hasLevel = v, true
	}
	if v, ok := os.LookupEnv(EnvJSON); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			opts.JSON, hasJSON = b, true
		}
	}
	return opts, hasLevel, hasJSON
}
