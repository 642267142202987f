package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/usecase/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService - мок для auth service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, req *auth.RefreshTokenRequest) (*auth.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, req *auth.LogoutRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// TestAuthHandler_Register тестирует регистрацию пользователя
func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешная регистрация",
			requestBody: auth.RegisterRequest{
				Email:    "test@example.com",
				Password: "password123",
				FullName: "Test User",
				Phone:    "+7 999 999 99 99",
				Role:     domain.RoleUser,
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(&domain.User{
						ID:       uuid.New(),
						Email:    "test@example.com",
						FullName: "Test User",
						Role:     domain.RoleUser,
						IsActive: true,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.True(t, resp["success"].(bool))
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, "test@example.com", data["email"])
				assert.Equal(t, "Test User", data["full_name"])
			},
		},
		{
			name: "пользователь уже существует",
			requestBody: auth.RegisterRequest{
				Email:    "existing@example.com",
				Password: "password123",
				FullName: "Existing User",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(nil, domain.ErrUserAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
				assert.Contains(t, resp["error"].(string), "already exists")
			},
		},
		{
			name:           "невалидный JSON",
			requestBody:    "invalid json",
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			log := logger.NewNoop()
			handler := NewAuthHandler(mockService, log)

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_Login тестирует вход пользователя
func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешный вход",
			requestBody: auth.LoginRequest{
				Email:    "test@example.com",
				Password: "password123",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(&auth.LoginResponse{
						User: &domain.User{
							ID:       uuid.New(),
							Email:    "test@example.com",
							FullName: "Test User",
							Role:     domain.RoleUser,
						},
						AccessToken:  "access_token_here",
						RefreshToken: "refresh_token_here",
						ExpiresAt:    "2026-09-01T00:00:00Z",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.True(t, resp["success"].(bool))
				data := resp["data"].(map[string]interface{})
				assert.NotEmpty(t, data["access_token"])
				assert.NotEmpty(t, data["refresh_token"])
			},
		},
		{
			name: "неверные учетные данные",
			requestBody: auth.LoginRequest{
				Email:    "test@example.com",
				Password: "wrongpassword",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(nil, domain.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
			},
		},
		{
			name: "неактивный пользователь",
			requestBody: auth.LoginRequest{
				Email:    "inactive@example.com",
				Password: "password123",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(nil, domain.ErrUserInactive)
			},
			expectedStatus: http.StatusForbidden,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			log := logger.NewNoop()
			handler := NewAuthHandler(mockService, log)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Login(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_RefreshToken тестирует обновление токена
func TestAuthHandler_RefreshToken(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешное обновление токена",
			requestBody: auth.RefreshTokenRequest{
				RefreshToken: "valid_refresh_token",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("RefreshToken", mock.Anything, mock.AnythingOfType("*auth.RefreshTokenRequest")).
					Return(&auth.LoginResponse{
						User: &domain.User{
							ID:    uuid.New(),
							Email: "test@example.com",
							Role:  domain.RoleUser,
						},
						AccessToken:  "new_access_token",
						RefreshToken: "new_refresh_token",
						ExpiresAt:    "2026-09-01T00:00:00Z",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.True(t, resp["success"].(bool))
				data := resp["data"].(map[string]interface{})
				assert.NotEmpty(t, data["access_token"])
				assert.NotEmpty(t, data["refresh_token"])
			},
		},
		{
			name: "невалидный refresh token",
			requestBody: auth.RefreshTokenRequest{
				RefreshToken: "invalid_token",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("RefreshToken", mock.Anything, mock.AnythingOfType("*auth.RefreshTokenRequest")).
					Return(nil, domain.ErrInvalidToken)
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			log := logger.NewNoop()
			handler := NewAuthHandler(mockService, log)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.RefreshToken(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_GetMe тестирует получение текущего пользователя
func TestAuthHandler_GetMe(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		setupContext   func() context.Context
		mockSetup      func(*MockAuthService)
		expectedStatus int
	}{
		{
			name: "успешное получение профиля",
			setupContext: func() context.Context {
				return CreateAuthContext(t, userID, "test@example.com", domain.RoleUser)
			},
			mockSetup: func(m *MockAuthService) {
				m.On("GetUserByID", mock.Anything, userID).
					Return(CreateTestUser(userID, "test@example.com", domain.RoleUser), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "без аутентификации",
			setupContext: func() context.Context {
				return context.Background()
			},
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "пользователь не найден",
			setupContext: func() context.Context {
				return CreateAuthContext(t, userID, "test@example.com", domain.RoleUser)
			},
			mockSetup: func(m *MockAuthService) {
				m.On("GetUserByID", mock.Anything, userID).
					Return(nil, domain.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			log := logger.NewNoop()
			handler := NewAuthHandler(mockService, log)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			req = req.WithContext(tt.setupContext())
			w := httptest.NewRecorder()

			handler.GetMe(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
