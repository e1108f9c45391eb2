package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
	once sync.Once
)

// GetLogger returns the shared JSON logger, creating it on first use.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logg = logrus.New()
		logg.SetFormatter(&logrus.JSONFormatter{})
		logg.SetOutput(os.Stderr)
		if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
			logg.SetLevel(lvl)
		} else {
			logg.SetLevel(logrus.InfoLevel)
		}
	})
	return logg
}

// LogError records a failure with its module/function origin and any context data.
func LogError(moduleName, funcName, context string, data any, err error) {
	if err == nil {
		return
	}
	GetLogger().WithFields(logrus.Fields{
		"module":   moduleName,
		"function": funcName,
		"context":  context,
		"data":     data,
	}).Error(err.Error())
}
