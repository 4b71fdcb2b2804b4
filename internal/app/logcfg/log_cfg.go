package logcfg

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// DefaultFileName is used when LOG_FILE_NAME is empty.
const DefaultFileName = "articles.log"

// RunLoggerConfig производит настройку logrus устанавливая уровень логирования,
// формат логируемой информации и настройки записи логов в файл.
func RunLoggerConfig(level, fileName string) error {
	return ConfigureLogger(level, fileName, os.Stdout)
}

// ConfigureLogger is RunLoggerConfig with a custom console writer.
func ConfigureLogger(level, fileName string, console io.Writer) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logrus.SetLevel(logLevel)
	logrus.SetReportCaller(true)

	//Настраиваем формат логируемой информации
	logrus.SetFormatter(&logrus.TextFormatter{CallerPrettyfier: callerPrettyfier})

	if fileName == "" {
		fileName = DefaultFileName
	}
	// Настраиваем запись логов в файл
	logrus.SetOutput(io.MultiWriter(console, NewRotatingFile(fileName)))
	return nil
}

// NewRotatingFile returns a lumberjack writer rotating at 50MB and keeping 3 backups for 30 days.
func NewRotatingFile(fileName string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     30,
	}
}

func callerPrettyfier(f *runtime.Frame) (function string, file string) {
	_, filename := path.Split(f.File)
	return "", fmt.Sprintf("%s.%d.%s", filename, f.Line, f.Function)
}
