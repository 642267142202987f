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
	"github.com/frontandrew/fleettrack/internal/usecase/vehicle"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVehicleService - мок для vehicle service
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) CreateVehicle(ctx context.Context, req *vehicle.CreateVehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehicleByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehicleByQRToken(ctx context.Context, qrToken string) (*domain.Vehicle, error) {
	args := m.Called(ctx, qrToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) ListVehicles(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) UpdateVehicle(ctx context.Context, id uuid.UUID, req *vehicle.UpdateVehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TestVehicleHandler_CreateVehicle тестирует создание автомобиля
func TestVehicleHandler_CreateVehicle(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockVehicleService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешное создание",
			requestBody: vehicle.CreateVehicleRequest{
				Name:         "Бус 1",
				LicensePlate: "А123ВС777",
				Model:        "ГАЗель Next",
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("*vehicle.CreateVehicleRequest")).
					Return(CreateTestVehicle(uuid.New(), "Бус 1", "А123ВС777"), nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.True(t, resp["success"].(bool))
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, "Бус 1", data["name"])
				assert.NotEmpty(t, data["qr_token"])
			},
		},
		{
			name: "номер уже зарегистрирован",
			requestBody: vehicle.CreateVehicleRequest{
				Name:         "Бус 2",
				LicensePlate: "А123ВС777",
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("*vehicle.CreateVehicleRequest")).
					Return(nil, domain.ErrVehicleAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
			},
		},
		{
			name: "невалидный номер",
			requestBody: vehicle.CreateVehicleRequest{
				Name:         "Бус 3",
				LicensePlate: "АБ",
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("*vehicle.CreateVehicleRequest")).
					Return(nil, domain.ErrInvalidLicensePlate)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)

			log := logger.NewNoop()
			handler := NewVehicleHandler(mockService, log)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateVehicle(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

// TestVehicleHandler_GetVehicleByQRToken тестирует поиск автомобиля по QR коду
func TestVehicleHandler_GetVehicleByQRToken(t *testing.T) {
	vehicleID := uuid.New()
	testVehicle := CreateTestVehicle(vehicleID, "Бус 1", "А123ВС777")

	tests := []struct {
		name           string
		token          string
		mockSetup      func(*MockVehicleService)
		expectedStatus int
	}{
		{
			name:  "автомобиль найден",
			token: testVehicle.QRToken,
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicleByQRToken", mock.Anything, testVehicle.QRToken).
					Return(testVehicle, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "неизвестный токен",
			token: "unknown-token",
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicleByQRToken", mock.Anything, "unknown-token").
					Return(nil, domain.ErrVehicleNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:  "автомобиль выведен из эксплуатации",
			token: testVehicle.QRToken,
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicleByQRToken", mock.Anything, testVehicle.QRToken).
					Return(nil, domain.ErrVehicleInactive)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)

			log := logger.NewNoop()
			handler := NewVehicleHandler(mockService, log)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/qr/"+tt.token, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("token", tt.token)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.GetVehicleByQRToken(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestVehicleHandler_ListVehicles тестирует список автомобилей
func TestVehicleHandler_ListVehicles(t *testing.T) {
	mockService := new(MockVehicleService)
	mockService.On("ListVehicles", mock.Anything, 50, 0).
		Return([]*domain.Vehicle{
			CreateTestVehicle(uuid.New(), "Бус 1", "А123ВС777"),
			CreateTestVehicle(uuid.New(), "Бус 2", "В456ЕК777"),
		}, nil)

	handler := NewVehicleHandler(mockService, logger.NewNoop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles", nil)
	w := httptest.NewRecorder()

	handler.ListVehicles(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.True(t, response["success"].(bool))
	assert.Len(t, response["data"].([]interface{}), 2)

	mockService.AssertExpectations(t)
}
