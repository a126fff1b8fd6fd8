package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Refresher периодически перечитывает сохранённый документ.
// Ошибка цикла записывается в лог и не останавливает следующие циклы.
type Refresher struct {
	ingest   IngestService
	interval time.Duration
	logger   *zap.Logger
}

// NewRefresher interval <= 0 отключает обновление
func NewRefresher(ingest IngestService, interval time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{ingest: ingest, interval: interval, logger: logger}
}

// Run блокируется до отмены ctx
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("периодическое обновление расписания отключено")
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("периодическое обновление расписания запущено", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Refresher) runOnce(ctx context.Context) {
	result, err := r.ingest.Refresh(ctx)
	switch {
	case err == nil:
		r.logger.Info("расписание обновлено", zap.Int("groups", result.TotalGroups))
	case errors.Is(err, ErrIngestInProgress):
		r.logger.Info("обновление пропущено: выполняется другая загрузка")
	case errors.Is(err, ErrNoSourceDocument):
		r.logger.Debug("обновление пропущено: документ ещё не загружен")
	case errors.Is(err, context.Canceled):
	default:
		r.logger.Error("ошибка обновления расписания", zap.Error(err))
	}
}
