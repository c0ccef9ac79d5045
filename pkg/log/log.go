package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

const (
	defaultLogDir = "./storage/logs"
	callerColor   = 34
)

type Fields = logrus.Fields

// NewLogger returns the process-wide logger. LOG_LEVEL picks the level
// (debug when unset or unknown). Outside APP_ENV=test the output is also
// written to a rotating file under LOG_DIR.
func NewLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetLevel(levelFromEnv(os.Getenv("LOG_LEVEL")))
		logger.SetFormatter(&formatter.Formatter{
			TimestampFormat: "02 Jan 06 - 15:04:05",
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", callerColor, path.Base(f.File), f.Line, s[len(s)-1])
			},
		})

		writers := []io.Writer{os.Stderr}
		if os.Getenv("APP_ENV") != "test" {
			writers = append(writers, rotatingFile(os.Getenv("LOG_DIR"), time.Now()))
		}

		logger.SetOutput(io.MultiWriter(writers...))
		logger.SetReportCaller(true)
	})

	return logger
}

func levelFromEnv(value string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(value))
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func rotatingFile(dir string, now time.Time) *lumberjack.Logger {
	if dir == "" {
		dir = defaultLogDir
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, fmt.Sprintf("ubas-%s.log", now.Format("2006-01-02"))),
		LocalTime:  true,
		Compress:   true,
		MaxSize:    100,
		MaxAge:     14,
		MaxBackups: 5,
	}
}

// TraceID returns the id a client can quote when reporting a failure: the
// request id when the fields carry one, a fresh UUID otherwise. The id is
// also stored in fields under "trace_id".
func TraceID(fields Fields) string {
	traceID := "unknown"
	if id, ok := fields["request_id"].(string); ok && id != "" && id != "unknown" {
		traceID = id
	} else if id, err := uuid.NewRandom(); err == nil {
		traceID = id.String()
	}

	if fields != nil {
		fields["trace_id"] = traceID
	}
	return traceID
}
