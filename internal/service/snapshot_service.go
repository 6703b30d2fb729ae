package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// SnapshotService собирает состояние локальных репозиториев в единый
// снапшот и сохраняет его после каждой мутации. Загрузка выполняется
// один раз при старте процесса.
type SnapshotService struct {
	gridRepo     repository.GridRepository
	evalRepo     repository.EvaluationRepository
	campaignRepo repository.CampaignRepository
	snapshots    repository.SnapshotRepository
}

// NewSnapshotService создает новый сервис снапшотов.
// snapshots может быть nil - тогда сохранение отключено.
func NewSnapshotService(
	gridRepo repository.GridRepository,
	evalRepo repository.EvaluationRepository,
	campaignRepo repository.CampaignRepository,
	snapshots repository.SnapshotRepository,
) *SnapshotService {
	return &SnapshotService{
		gridRepo:     gridRepo,
		evalRepo:     evalRepo,
		campaignRepo: campaignRepo,
		snapshots:    snapshots,
	}
}

// Save собирает и сохраняет снапшот текущего состояния
func (s *SnapshotService) Save() error {
	if s.snapshots == nil {
		return nil
	}

	grids, err := s.gridRepo.List()
	if err != nil {
		return fmt.Errorf("failed to collect grids for snapshot: %w", err)
	}
	evaluations, err := s.evalRepo.List()
	if err != nil {
		return fmt.Errorf("failed to collect evaluations for snapshot: %w", err)
	}
	campaigns, err := s.campaignRepo.List()
	if err != nil {
		return fmt.Errorf("failed to collect campaigns for snapshot: %w", err)
	}

	return s.snapshots.Save(&repository.StoreSnapshot{
		Grids:         grids,
		Evaluations:   evaluations,
		Campaigns:     campaigns,
		SchemaVersion: repository.SnapshotSchemaVersion,
	})
}

// SaveQuiet сохраняет снапшот, логируя ошибку вместо возврата.
// Мутация к этому моменту уже применена и не откатывается.
func (s *SnapshotService) SaveQuiet() {
	if err := s.Save(); err != nil {
		log.Printf("[SnapshotService] Ошибка сохранения снапшота: %v", err)
	}
}

// Load восстанавливает репозитории из последнего снапшота.
// Отсутствие снапшота - не ошибка; снапшот с чужой версией схемы
// отбрасывается, состояние начинается с чистого листа.
func (s *SnapshotService) Load() error {
	if s.snapshots == nil {
		return nil
	}

	snapshot, err := s.snapshots.Load()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Println("[SnapshotService] Снапшот не найден, начинаем с пустого состояния")
			return nil
		}
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	if snapshot.SchemaVersion != repository.SnapshotSchemaVersion {
		log.Printf("[SnapshotService] Снапшот версии %d несовместим с текущей %d, пропускаем",
			snapshot.SchemaVersion, repository.SnapshotSchemaVersion)
		return nil
	}

	if err := s.gridRepo.Restore(snapshot.Grids); err != nil {
		return fmt.Errorf("failed to restore grids: %w", err)
	}
	if err := s.evalRepo.Restore(snapshot.Evaluations); err != nil {
		return fmt.Errorf("failed to restore evaluations: %w", err)
	}
	if err := s.campaignRepo.Restore(snapshot.Campaigns); err != nil {
		return fmt.Errorf("failed to restore campaigns: %w", err)
	}

	log.Printf("[SnapshotService] Восстановлено из снапшота: %d сеток, %d оценок, %d кампаний",
		len(snapshot.Grids), len(snapshot.Evaluations), len(snapshot.Campaigns))
	return nil
}
