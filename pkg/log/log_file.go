package log

import (
	"fmt"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultFilename = "jmarkets.log"

// getFileLogWriter returns the WriteSyncer for logging to a rotated file.
func getFileLogWriter(conf *Conf) zapcore.WriteSyncer {
	filename := conf.Filename
	if filename == "" {
		filename = defaultFilename
	}
	lumberJackLogger := &lumberjack.Logger{
		Filename:   fmt.Sprintf("%s/%s", conf.Path, filename),
		MaxSize:    conf.RotateSize,
		MaxBackups: conf.RotateNum,
		MaxAge:     conf.KeepDays,
		Compress:   true,
	}
	return zapcore.AddSync(lumberJackLogger)
}
