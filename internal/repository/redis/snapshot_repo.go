package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

const snapshotKey = "qaeval:snapshot"

// SnapshotRepo реализует repository.SnapshotRepository поверх Redis.
// Снимок хранится одним JSON-значением без TTL: это страховка всего
// in-memory состояния между рестартами, а не кеш.
type SnapshotRepo struct {
	client redis.UniversalClient
	ctx    context.Context
}

// NewSnapshotRepo создает новый репозиторий снимков и возвращает ошибку при проблемах
func NewSnapshotRepo(client redis.UniversalClient) (*SnapshotRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for SnapshotRepo")
	}
	return &SnapshotRepo{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// Save сохраняет полный снимок состояния
func (r *SnapshotRepo) Save(snapshot *repository.StoreSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, snapshotKey, data, 0).Err()
}

// Load читает снимок; если его нет, возвращает ErrNotFound
func (r *SnapshotRepo) Load() (*repository.StoreSnapshot, error) {
	data, err := r.client.Get(r.ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	var snapshot repository.StoreSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("поврежденный снимок состояния: %w", err)
	}
	return &snapshot, nil
}
