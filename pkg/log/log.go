// Copyright 2026 JMarkets Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newFallbackLogger()
	sugar  = logger.Sugar()
)

// newFallbackLogger serves log calls made before Init, such as config
// loading during startup. Init replaces it with the configured logger.
func newFallbackLogger() *zap.Logger {
	core := zapcore.NewCore(getEncoder(), zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
	return zap.New(core, zap.AddCallerSkip(1), zap.AddCaller())
}

// ProviderSet is the Wire provider set for the log package.
var ProviderSet = wire.NewSet(ProvideLogger)

// ProvideLogger provides a Logger instance.
func ProvideLogger(conf *Conf) (*Logger, error) {
	zapLogger, err := NewLog(conf)
	if err != nil {
		return nil, err
	}
	return &Logger{Log: zapLogger.Sugar()}, nil
}

// Conf holds logger configuration options.
type Conf struct {
	Output     string
	Path       string
	Filename   string // log file name, default when empty
	Level      string
	KeepDays   int // rotated file retention in days
	RotateSize int // max size of a single log file (MB)
	RotateNum  int // number of rotated files to keep
}

// SetDefaults returns the default configuration.
func SetDefaults() *Conf {
	return &Conf{
		Output:     "stdout",
		Path:       "./logs",
		Filename:   "jmarkets.log",
		Level:      "INFO",
		KeepDays:   7,
		RotateSize: 100,
		RotateNum:  10,
	}
}

// Validate validates the configuration.
func (c *Conf) Validate() error {
	if c.Output == "file" {
		if c.Path == "" {
			return fmt.Errorf("log path is required when output is 'file'")
		}
		if c.RotateSize <= 0 {
			c.RotateSize = 100
		}
		if c.RotateNum <= 0 {
			c.RotateNum = 10
		}
		if c.KeepDays <= 0 {
			c.KeepDays = 7
		}
	}
	return nil
}

type Logger struct {
	Log *zap.SugaredLogger
}

// NewLog initializes the logger and returns a zap.Logger.
func NewLog(conf *Conf) (*zap.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	var (
		writeSyncer zapcore.WriteSyncer
		encoder     zapcore.Encoder
		core        zapcore.Core
	)

	encoder = getEncoder()

	switch conf.Output {
	case "stdout":
		writeSyncer = zapcore.AddSync(os.Stdout)
	case "file":
		writeSyncer = getFileLogWriter(conf)
	default:
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core = zapcore.NewCore(encoder, writeSyncer, parseLogLevel(conf.Level))

	newLogger := zap.New(core, zap.AddCallerSkip(1), zap.AddCaller())

	mu.Lock()
	logger = newLogger
	sugar = newLogger.Sugar()
	mu.Unlock()

	sugar.Debugw("log initialized",
		"output", conf.Output,
		"level", conf.Level,
	)

	return newLogger, nil
}

// Init initializes the global logger instance.
func Init(conf *Conf) error {
	_, err := NewLog(conf)
	return err
}

// MustInit initializes the global logger instance, panics on failure.
func MustInit(conf *Conf) {
	if err := Init(conf); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

// GetLogger returns the global zap.SugaredLogger instance.
func GetLogger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.Sugar()
}

// getEncoder returns the console encoder used for all outputs.
func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()

	encoderConfig.TimeKey = "time"
	encoderConfig.LevelKey = "level"
	encoderConfig.CallerKey = "caller"
	encoderConfig.MessageKey = "msg"
	encoderConfig.StacktraceKey = "stacktrace"
	encoderConfig.LineEnding = zapcore.DefaultLineEnding
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = customTimeEncoder
	encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	encoderConfig.EncodeName = zapcore.FullNameEncoder

	return zapcore.NewConsoleEncoder(encoderConfig)
}

// customTimeEncoder formats the time as 2006-01-02 15:04:05.
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05"))
}

// parseLogLevel converts a string level to a zapcore.Level.
// Supports case-insensitive matching.
func parseLogLevel(level string) zapcore.Level {
	levelUpper := strings.ToUpper(strings.TrimSpace(level))

	switch levelUpper {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
