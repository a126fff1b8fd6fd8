// Package storage хранит исходный документ расписания и служебные JSON-файлы
// (смены групп, звонки) в MinIO или в локальном каталоге.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"college-schedule/backend/config"
)

// ErrObjectNotFound объекта с таким ключом нет
var ErrObjectNotFound = errors.New("объект не найден")

// ObjectStore хранилище объектов по ключу
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New создаёт хранилище согласно storage.backend
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (ObjectStore, error) {
	switch cfg.Backend {
	case "minio":
		s, err := NewMinIOStore(ctx, &cfg.MinIO)
		if err != nil {
			return nil, err
		}
		logger.Info("хранилище MinIO", zap.String("endpoint", cfg.MinIO.Endpoint), zap.String("bucket", cfg.MinIO.Bucket))
		return s, nil
	case "local", "":
		s, err := NewLocalStore(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		logger.Info("локальное хранилище", zap.String("dir", cfg.LocalDir))
		return s, nil
	default:
		return nil, fmt.Errorf("неизвестный storage.backend %q", cfg.Backend)
	}
}
