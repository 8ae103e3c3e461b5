// Package logging is a thin wrapper of the zap logging library.
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "SPECTRUM_LOG"

var root = func() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zap.DebugLevel,
	)
	return zap.New(core)
}()

// New creates a logger.
// By convention, this should appear in the same .go file as the package docstring:
//
//	var logger = logging.New("spectrum")
func New(pkg string) *zap.Logger {
	lvl := zap.NewAtomicLevelAt(parseLevel(pkg))
	levels.Lock()
	levels.list = append(levels.list, pkgLevel{pkg, lvl})
	levels.Unlock()
	return root.Named(pkg).WithOptions(zap.IncreaseLevel(lvl))
}

type pkgLevel struct {
	pkg string
	lvl zap.AtomicLevel
}

var levels struct {
	sync.Mutex
	list []pkgLevel
}

// Reload re-reads the level of every logger created by New from the
// environment. Commands call it after loading a .env file.
func Reload() {
	levels.Lock()
	defer levels.Unlock()
	for _, l := range levels.list {
		l.lvl.SetLevel(parseLevel(l.pkg))
	}
}

// GetLevel returns the configured log level of a package as a letter.
// SPECTRUM_LOG_<PKG> takes precedence over SPECTRUM_LOG.
func GetLevel(pkg string) rune {
	lvl, ok := os.LookupEnv(envPrefix + "_" + strings.ToUpper(pkg))
	if !ok {
		lvl, ok = os.LookupEnv(envPrefix)
	}
	if !ok || len(lvl) == 0 {
		return 0
	}
	return rune(strings.ToUpper(lvl)[0])
}

func parseLevel(pkg string) zapcore.Level {
	switch GetLevel(pkg) {
	case 'V', 'D':
		return zapcore.DebugLevel
	case 'I':
		return zapcore.InfoLevel
	case 'E':
		return zapcore.ErrorLevel
	case 'F', 'N':
		return zapcore.DPanicLevel
	}
	return zapcore.WarnLevel
}
