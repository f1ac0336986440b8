package logger

import "go.uber.org/zap"

// Log stays a no-op until Init so packages under test can log freely.
var Log = zap.NewNop()

func Init() {
	Log = zap.Must(zap.NewProduction())
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
