package repository

import (
	"context"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
)

// RemoteStore определяет контракт удаленного хранилища (write-through).
// Локальные репозитории остаются источником истины: ошибка удаленной записи
// логируется и классифицируется как ErrRemoteUnavailable, локальное состояние
// не откатывается. Обратное направление (чтение) используется только как
// подсказка при пустом локальном состоянии.
type RemoteStore interface {
	FetchGrids(ctx context.Context) ([]entity.Grid, error)
	CreateGrid(ctx context.Context, grid *entity.Grid) error
	UpdateGrid(ctx context.Context, grid *entity.Grid) error
	DeleteGrid(ctx context.Context, id uint) error

	CreateEvaluation(ctx context.Context, evaluation *entity.Evaluation) error
	UpdateEvaluation(ctx context.Context, evaluation *entity.Evaluation) error

	CreateCampaign(ctx context.Context, campaign *entity.Campaign) error
	UpdateCampaign(ctx context.Context, campaign *entity.Campaign) error
	DeleteCampaign(ctx context.Context, id uint) error
}
