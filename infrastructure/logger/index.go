package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerOptions struct {
	Key  string
	Data interface{}
}

// Logger is a no-op until InitializeLogger runs so packages can log from tests.
var Logger = zap.NewNop()

// Builds the process logger. Production JSON output when APP_ENV is production.
func InitializeLogger() {
	var (
		built *zap.Logger
		err   error
	)
	if os.Getenv("APP_ENV") == "production" {
		built, err = zap.NewProduction()
	} else {
		built, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	Logger = built
}

// Flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = Logger.Sync()
}

// This logs info level messages.
func Info(msg string, payload ...LoggerOptions) {
	Logger.Info(msg, toFields(payload)...)
}

// This logs error messages.
// describe the incident in msg and pass the error through logger options
// with key error
func Error(msg string, payload ...LoggerOptions) {
	Logger.Error(msg, toFields(payload)...)
}

// This logs warning messages.
func Warning(msg string, payload ...LoggerOptions) {
	Logger.Warn(msg, toFields(payload)...)
}

func toFields(payload []LoggerOptions) []zapcore.Field {
	zapFields := []zapcore.Field{}
	for _, data := range payload {
		zapFields = append(zapFields, zap.Any(data.Key, data.Data))
	}
	return zapFields
}
