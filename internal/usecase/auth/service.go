package auth

import (
	"context"
	"fmt"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/hash"
	"github.com/frontandrew/fleettrack/internal/pkg/jwt"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/repository"
	"github.com/google/uuid"
)

// RegisterRequest - запрос на регистрацию
type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	FullName string          `json:"full_name" validate:"required"`
	Phone    string          `json:"phone,omitempty"`
	Role     domain.UserRole `json:"role,omitempty"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest - запрос на обновление access токена
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest - запрос на выход
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse - ответ на вход
type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    string       `json:"expires_at"`
}

// Service содержит бизнес-логику аутентификации
type Service struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	tokenService     *jwt.TokenService
	logger           logger.Logger
}

// NewService создает новый экземпляр AuthService
func NewService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	tokenService *jwt.TokenService,
	logger logger.Logger,
) *Service {
	return &Service{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokenService:     tokenService,
		logger:           logger,
	}
}

// Register регистрирует нового пользователя
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	s.logger.Info("Registering new user", map[string]interface{}{
		"email": req.Email,
	})

	// Проверяем, что пользователь с таким email еще не существует
	existingUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if existingUser != nil {
		s.logger.Warn("User already exists", map[string]interface{}{
			"email": req.Email,
		})
		return nil, domain.ErrUserAlreadyExists
	}

	if len(req.Password) < 8 {
		return nil, domain.ErrInvalidPassword
	}

	// Хешируем пароль
	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Создаем пользователя
	user := &domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
		IsActive:     true,
	}

	// Если роль не указана, устанавливаем по умолчанию "user"
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	// Валидируем данные пользователя
	if err := user.Validate(); err != nil {
		return nil, err
	}

	// Сохраняем в БД
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	// Не возвращаем password_hash
	user.PasswordHash = ""

	return user, nil
}

// Login выполняет вход пользователя и выдает пару токенов
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	// Сохраняем хеш refresh токена
	if err := s.storeRefreshToken(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		return nil, err
	}

	// Обновляем время последнего входа (не критично при ошибке)
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to update last login", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	s.logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	user.PasswordHash = ""

	return &LoginResponse{
		User:         user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// RefreshToken обновляет пару токенов по действующему refresh токену
func (s *Service) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*LoginResponse, error) {
	tokenHash := jwt.HashToken(req.RefreshToken)

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if !stored.IsValid() {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// Ротация: старый refresh токен отзываем, выдаем новый
	if err := s.refreshTokenRepo.Revoke(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &LoginResponse{
		User:         user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// Logout отзывает refresh токен пользователя
func (s *Service) Logout(ctx context.Context, req *LogoutRequest) error {
	tokenHash := jwt.HashToken(req.RefreshToken)
	return s.refreshTokenRepo.Revoke(ctx, tokenHash)
}

// GetUserByID возвращает пользователя по ID
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) storeRefreshToken(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	token := &domain.RefreshToken{
		UserID:    userID,
		TokenHash: jwt.HashToken(refreshToken),
		ExpiresAt: s.tokenService.RefreshExpiresAt(),
	}

	if err := s.refreshTokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}
