package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository поверх состояния в памяти.
// Учетные записи заводятся при старте из конфигурации.
type UserRepo struct {
	mu     sync.RWMutex
	users  []entity.User
	lastID uint
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

// Create назначает ID и добавляет пользователя
func (r *UserRepo) Create(user *entity.User) (uint, error) {
	if user.Email == "" {
		return 0, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, user.Email) {
			return 0, fmt.Errorf("%w: email %s already registered", apperrors.ErrConflict, user.Email)
		}
	}

	r.lastID++
	stored := *user
	stored.ID = r.lastID
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.users = append(r.users, stored)
	return stored.ID, nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// GetByEmail возвращает пользователя по email (без учета регистра)
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// List возвращает всех пользователей
func (r *UserRepo) List() ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]entity.User, len(r.users))
	copy(users, r.users)
	return users, nil
}
