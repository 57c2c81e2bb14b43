package logger

import (
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
)

const debugEnv = "FIELDASSERT_DEBUG"

var logger = zap.NewNop().Sugar()

// Init builds the global logger; the development config is used when debug is set or FIELDASSERT_DEBUG is enabled.
func Init(debug bool) {
	if !debug {
		debug = IsDebugEnv()
	}
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	l, err := config.Build()
	if err != nil {
		log.Fatal(err)
	}
	zap.ReplaceGlobals(l)
	logger = zap.S()
}

func IsDebugEnv() bool {
	envDebug := strings.ToLower(os.Getenv(debugEnv))
	return len(envDebug) > 0 && !(envDebug == "disable" || envDebug == "false" || envDebug == "0")
}

func Debugw(msg string, keysAndValues ...any) {
	logger.Debugw(msg, keysAndValues...)
}

func Debugf(template string, args ...any) {
	logger.Debugf(template, args...)
}

func Infof(template string, args ...any) {
	logger.Infof(template, args...)
}

func Warnf(template string, args ...any) {
	logger.Warnf(template, args...)
}

func Sync() {
	_ = logger.Sync()
}
