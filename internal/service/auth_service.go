package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	"github.com/yourusername/qa-eval-api/internal/domain/repository"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
	"github.com/yourusername/qa-eval-api/pkg/auth"
)

// AuthService предоставляет методы для работы с аутентификацией рецензентов
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// SeedAdmin создает администратора из конфигурации, если его еще нет.
// Повторный запуск с тем же email не создает дубликата.
func (s *AuthService) SeedAdmin(email, name, password string) error {
	if email == "" || password == "" {
		log.Println("[AuthService] Администратор не настроен, пропускаем создание")
		return nil
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	user := &entity.User{
		Email: email,
		Name:  name,
		Role:  entity.RoleAdmin,
	}
	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("не удалось захешировать пароль администратора: %w", err)
	}
	if _, err := s.userRepo.Create(user); err != nil {
		return err
	}
	log.Printf("[AuthService] Создан администратор %s", email)
	return nil
}

// Login проверяет учетные данные и выписывает JWT
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: неверный email или пароль", apperrors.ErrUnauthorized)
		}
		return "", nil, err
	}

	if !user.CheckPassword(password) {
		return "", nil, fmt.Errorf("%w: неверный email или пароль", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("не удалось выписать токен: %w", err)
	}
	return token, user, nil
}

// GetUser возвращает пользователя по ID
func (s *AuthService) GetUser(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}
