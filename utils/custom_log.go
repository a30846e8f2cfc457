package utils

import (
	"io"

	log "github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

const (
	plainLogFormat = "%time% %lvl% %msg%\n"
	colorLogFormat = "%time% \033[%color%m%lvl%\033[0m %msg%\n"
)

var (
	_colorPrint = false
	_logger     = newLogger()
)

func newLogger() *log.Logger {
	l := log.New()
	l.SetLevel(log.InfoLevel)
	l.SetFormatter(formatter(false))
	return l
}

func formatter(color bool) *easy.Formatter {
	format := plainLogFormat
	if color {
		format = colorLogFormat
	}
	return &easy.Formatter{
		TimestampFormat: "2006/01/02 15:04:05",
		LogFormat:       format,
	}
}

func levelColor(level log.Level) string {
	switch level {
	case log.WarnLevel:
		return "33"
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		return "31"
	case log.DebugLevel, log.TraceLevel:
		return "36"
	}
	return "32"
}

func SetColorPrint(enable bool) {
	_colorPrint = enable
	_logger.SetFormatter(formatter(enable))
}

func SetOutput(w io.Writer) {
	_logger.SetOutput(w)
}

// SetLevel accepts logrus level names: debug, info, warn, error.
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	_logger.SetLevel(lvl)
	return nil
}

func Logger() *log.Logger {
	return _logger
}

func logf(level log.Level, format string, v ...interface{}) {
	entry := log.NewEntry(_logger)
	if _colorPrint {
		entry = entry.WithField("color", levelColor(level))
	}
	entry.Logf(level, format, v...)
}

func LogDebug(format string, v ...interface{}) {
	logf(log.DebugLevel, format, v...)
}

func LogInfo(format string, v ...interface{}) {
	logf(log.InfoLevel, format, v...)
}

func LogWarn(format string, v ...interface{}) {
	logf(log.WarnLevel, format, v...)
}

func LogErro(format string, v ...interface{}) {
	logf(log.ErrorLevel, format, v...)
}

func LogFatal(format string, v ...interface{}) {
	logf(log.FatalLevel, format, v...)
	_logger.Exit(1)
}
