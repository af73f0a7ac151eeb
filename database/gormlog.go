package db

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger routes gorm's logging through zerolog so the whole service
// logs in one format.
type gormLogger struct {
	logger zerolog.Logger
}

var _ gormlogger.Interface = gormLogger{}

func newGormLogger() gormLogger {
	return gormLogger{logger: log.Logger}
}

func (l gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	l.logger.Info().Msgf(msg, args...)
}

func (l gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	l.logger.Warn().Msgf(msg, args...)
}

func (l gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	l.logger.Error().Msgf(msg, args...)
}

func (l gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()
	event := l.logger.Debug()
	if err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) {
		event = l.logger.Error().Err(err)
	}
	event.Dur("elapsed", time.Since(begin)).Int64("rows", rows).Str("sql", sql).Msg("DB-GORM: query")
}
