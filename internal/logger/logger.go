package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once sync.Once
	base *zap.Logger
)

// Logger wraps zap.Logger so callers get the package-scoped child logger
// without touching the zap import directly.
type Logger struct {
	*zap.Logger
}

func initBase() {
	var err error
	if _, debug := os.LookupEnv("SPLASH_DEBUG"); debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		base, err = cfg.Build()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
}

// New returns a logger scoped to the given component name.
func New(component string) *Logger {
	once.Do(initBase)
	return &Logger{base.With(zap.String("component", component))}
}

// Sync flushes any buffered log entries. Callers should defer this from main.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
