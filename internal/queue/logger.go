package queue

import (
	"github.com/conveyorhq/conveyor/internal/logging"
	"github.com/hibiken/asynq"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// asynqLogger adapts the service logger to asynq's logging interface.
type asynqLogger struct {
	sugar *otelzap.SugaredLogger
}

func newAsynqLogger(logger *logging.Logger) asynq.Logger {
	return &asynqLogger{sugar: logger.Sugar()}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.sugar.Debug(args...) }
func (l *asynqLogger) Info(args ...interface{})  { l.sugar.Info(args...) }
func (l *asynqLogger) Warn(args ...interface{})  { l.sugar.Warn(args...) }
func (l *asynqLogger) Error(args ...interface{}) { l.sugar.Error(args...) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.sugar.Fatal(args...) }
