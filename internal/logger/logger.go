package logger

import "go.uber.org/zap"

// Log is a no-op until Init runs, so library code can log unconditionally.
var Log = zap.NewNop()

// Init builds the process-wide logger. dev switches to the human-readable
// development encoder.
func Init(dev bool) {
	if dev {
		Log = zap.Must(zap.NewDevelopment())
		return
	}
	Log = zap.Must(zap.NewProduction())
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
