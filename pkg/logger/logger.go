package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New создает JSON-логгер. Сервер пишет в stdout, агент - в stderr, т.к. его stdout
// занят выводом команд.
func New(logLevel string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{})

	log.SetOutput(out)

	// Уровень логирования
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel // Уровень по умолчанию, если передан некорректный
	}
	log.SetLevel(level)
	return log
}
