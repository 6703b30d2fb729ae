package service

import (
	"context"
	"errors"
	"log"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// GridService предоставляет методы для работы с оценочными сетками.
// Локальный репозиторий - источник истины; удаленное хранилище обновляется
// сквозной записью best-effort, снапшот сохраняется после каждой мутации.
type GridService struct {
	gridRepo  repository.GridRepository
	remote    repository.RemoteStore
	snapshots *SnapshotService
}

// NewGridService создает новый сервис сеток.
// remote может быть nil - тогда сквозная запись отключена.
func NewGridService(gridRepo repository.GridRepository, remote repository.RemoteStore, snapshots *SnapshotService) *GridService {
	return &GridService{
		gridRepo:  gridRepo,
		remote:    remote,
		snapshots: snapshots,
	}
}

// CreateGridInput представляет входные данные создания сетки
type CreateGridInput struct {
	Name        string
	Description string
	Questions   []entity.Question
}

// CreateGrid создает сетку и возвращает назначенный ID.
// Возврат ID - часть контракта: вызывающие сразу выбирают созданную сетку.
func (s *GridService) CreateGrid(input CreateGridInput) (uint, error) {
	grid := &entity.Grid{
		Name:        input.Name,
		Description: input.Description,
		Questions:   input.Questions,
	}

	id, err := s.gridRepo.Create(grid)
	if err != nil {
		return 0, err
	}

	if s.remote != nil {
		if created, err := s.gridRepo.GetByID(id); err == nil {
			persistRemote("CreateGrid", func(ctx context.Context) error {
				return s.remote.CreateGrid(ctx, created)
			})
		}
	}
	s.snapshots.SaveQuiet()
	return id, nil
}

// GetGrid возвращает сетку по ID
func (s *GridService) GetGrid(id uint) (*entity.Grid, error) {
	return s.gridRepo.GetByID(id)
}

// ListGrids возвращает все сетки
func (s *GridService) ListGrids() ([]entity.Grid, error) {
	return s.gridRepo.List()
}

// UpdateGrid сливает частичное обновление в сетку.
// Отсутствующий ID - молчаливый no-op, как и во всем репозитории.
func (s *GridService) UpdateGrid(id uint, patch repository.GridUpdate) error {
	if err := s.gridRepo.Update(id, patch); err != nil {
		return err
	}

	s.pushGrid("UpdateGrid", id)
	s.snapshots.SaveQuiet()
	return nil
}

// DeleteGrid удаляет сетку. Оценки, ссылающиеся на нее, сохраняются
// как исторические записи - каскада нет.
func (s *GridService) DeleteGrid(id uint) error {
	if err := s.gridRepo.Delete(id); err != nil {
		return err
	}

	if s.remote != nil {
		persistRemote("DeleteGrid", func(ctx context.Context) error {
			return s.remote.DeleteGrid(ctx, id)
		})
	}
	s.snapshots.SaveQuiet()
	return nil
}

// AddQuestion валидирует и добавляет вопрос к сетке; возвращает ID вопроса.
// ID вопросов живут в пространстве сетки: добавление вопроса к одной сетке
// никогда не расходует ID из пространства другой.
func (s *GridService) AddQuestion(gridID uint, question entity.Question) (uint, error) {
	qid, err := s.gridRepo.AddQuestion(gridID, question)
	if err != nil {
		return 0, err
	}

	s.pushGrid("AddQuestion", gridID)
	s.snapshots.SaveQuiet()
	return qid, nil
}

// UpdateQuestion сливает частичное обновление в вопрос
func (s *GridService) UpdateQuestion(gridID, questionID uint, patch repository.QuestionUpdate) error {
	if err := s.gridRepo.UpdateQuestion(gridID, questionID, patch); err != nil {
		return err
	}

	s.pushGrid("UpdateQuestion", gridID)
	s.snapshots.SaveQuiet()
	return nil
}

// DeleteQuestion удаляет вопрос из сетки
func (s *GridService) DeleteQuestion(gridID, questionID uint) error {
	if err := s.gridRepo.DeleteQuestion(gridID, questionID); err != nil {
		return err
	}

	s.pushGrid("DeleteQuestion", gridID)
	s.snapshots.SaveQuiet()
	return nil
}

// ReorderQuestions переставляет вопросы сетки по новому порядку ID
func (s *GridService) ReorderQuestions(gridID uint, order []uint) error {
	if err := s.gridRepo.ReorderQuestions(gridID, order); err != nil {
		return err
	}

	s.pushGrid("ReorderQuestions", gridID)
	s.snapshots.SaveQuiet()
	return nil
}

// pushGrid отправляет текущее состояние сетки в удаленное хранилище.
// Сетка читается заново, чтобы запись ушла с назначенными ID и метками времени.
func (s *GridService) pushGrid(op string, id uint) {
	if s.remote == nil {
		return
	}

	grid, err := s.gridRepo.GetByID(id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[GridService] %s: не удалось прочитать сетку #%d для сквозной записи: %v", op, id, err)
		}
		return
	}

	persistRemote(op, func(ctx context.Context) error {
		return s.remote.UpdateGrid(ctx, grid)
	})
}
