package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// RemoteStore реализует repository.RemoteStore поверх Postgres.
// Это вторичное хранилище: авторитетным остается состояние в памяти,
// записи сюда идут best-effort после локального коммита.
type RemoteStore struct {
	db *gorm.DB
}

// NewRemoteStore создает новое удаленное хранилище
func NewRemoteStore(db *gorm.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

// FetchGrids возвращает все сетки с вопросами для сверки после рестарта
func (r *RemoteStore) FetchGrids(ctx context.Context) ([]entity.Grid, error) {
	var grids []entity.Grid
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Order("id").
		Find(&grids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)
	}
	return grids, nil
}

// CreateGrid записывает новую сетку вместе с вопросами.
// ID присвоен локальным репозиторием, поэтому вставляем его как есть.
func (r *RemoteStore) CreateGrid(ctx context.Context, grid *entity.Grid) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Omit("Questions").Create(grid).Error; err != nil {
			return classify(err)
		}
		return r.replaceQuestions(tx, grid)
	})
}

// UpdateGrid перезаписывает сетку и полный набор ее вопросов
func (r *RemoteStore) UpdateGrid(ctx context.Context, grid *entity.Grid) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Omit("Questions").Create(grid).Error; err != nil {
			return classify(err)
		}
		return r.replaceQuestions(tx, grid)
	})
}

// DeleteGrid удаляет сетку и ее вопросы; оценки не трогаем
func (r *RemoteStore) DeleteGrid(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("grid_id = ?", id).Delete(&entity.Question{}).Error; err != nil {
			return classify(err)
		}
		if err := tx.Delete(&entity.Grid{}, id).Error; err != nil {
			return classify(err)
		}
		return nil
	})
}

// CreateEvaluation записывает новую оценку
func (r *RemoteStore) CreateEvaluation(ctx context.Context, evaluation *entity.Evaluation) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(evaluation).Error
	return classify(err)
}

// UpdateEvaluation перезаписывает оценку (смена статуса при ревью)
func (r *RemoteStore) UpdateEvaluation(ctx context.Context, evaluation *entity.Evaluation) error {
	err := r.db.WithContext(ctx).Save(evaluation).Error
	return classify(err)
}

// CreateCampaign записывает новую кампанию
func (r *RemoteStore) CreateCampaign(ctx context.Context, campaign *entity.Campaign) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(campaign).Error
	return classify(err)
}

// UpdateCampaign перезаписывает кампанию
func (r *RemoteStore) UpdateCampaign(ctx context.Context, campaign *entity.Campaign) error {
	err := r.db.WithContext(ctx).Save(campaign).Error
	return classify(err)
}

// DeleteCampaign удаляет кампанию
func (r *RemoteStore) DeleteCampaign(ctx context.Context, id uint) error {
	return classify(r.db.WithContext(ctx).Delete(&entity.Campaign{}, id).Error)
}

// replaceQuestions заменяет вопросы сетки целиком: набор небольшой,
// а позиции и ID управляются локальным репозиторием
func (r *RemoteStore) replaceQuestions(tx *gorm.DB, grid *entity.Grid) error {
	if err := tx.Where("grid_id = ?", grid.ID).Delete(&entity.Question{}).Error; err != nil {
		return classify(err)
	}
	if len(grid.Questions) == 0 {
		return nil
	}
	if err := tx.Create(&grid.Questions).Error; err != nil {
		return classify(err)
	}
	return nil
}

// classify оборачивает драйверные ошибки в доменные
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
