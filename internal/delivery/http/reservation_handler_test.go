package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/usecase/reservation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReservationService - мок для reservation service
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, req *reservation.CreateReservationRequest) (*domain.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) IsAvailable(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error) {
	args := m.Called(ctx, vehicleID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, id, callerID uuid.UUID, callerRole domain.UserRole) error {
	args := m.Called(ctx, id, callerID, callerRole)
	return args.Error(0)
}

func (m *MockReservationService) GetMyReservations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) GetVehicleReservations(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	args := m.Called(ctx, vehicleID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

// TestReservationHandler_CreateReservation тестирует создание брони
func TestReservationHandler_CreateReservation(t *testing.T) {
	userID := uuid.New()
	vehicleID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockReservationService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешное создание брони",
			requestBody: reservation.CreateReservationRequest{
				VehicleID: vehicleID,
				StartTime: start,
				EndTime:   end,
				Purpose:   "Доставка оборудования",
			},
			mockSetup: func(m *MockReservationService) {
				m.On("CreateReservation", mock.Anything, mock.MatchedBy(func(req *reservation.CreateReservationRequest) bool {
					// Handler подставляет user_id из токена
					return req.UserID == userID && req.VehicleID == vehicleID
				})).Return(CreateTestReservation(uuid.New(), userID, vehicleID, start, end), nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.True(t, resp["success"].(bool))
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, string(domain.ReservationPending), data["status"])
			},
		},
		{
			name: "окно уже занято",
			requestBody: reservation.CreateReservationRequest{
				VehicleID: vehicleID,
				StartTime: start,
				EndTime:   end,
			},
			mockSetup: func(m *MockReservationService) {
				m.On("CreateReservation", mock.Anything, mock.AnythingOfType("*reservation.CreateReservationRequest")).
					Return(nil, domain.ErrReservationOverlap)
			},
			expectedStatus: http.StatusConflict,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
				assert.Contains(t, resp["error"].(string), "already reserved")
			},
		},
		{
			name: "начало позже конца",
			requestBody: reservation.CreateReservationRequest{
				VehicleID: vehicleID,
				StartTime: end,
				EndTime:   start,
			},
			mockSetup: func(m *MockReservationService) {
				m.On("CreateReservation", mock.Anything, mock.AnythingOfType("*reservation.CreateReservationRequest")).
					Return(nil, domain.ErrInvalidTimeRange)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
			},
		},
		{
			name: "автомобиль не найден",
			requestBody: reservation.CreateReservationRequest{
				VehicleID: vehicleID,
				StartTime: start,
				EndTime:   end,
			},
			mockSetup: func(m *MockReservationService) {
				m.On("CreateReservation", mock.Anything, mock.AnythingOfType("*reservation.CreateReservationRequest")).
					Return(nil, domain.ErrVehicleNotFound)
			},
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockReservationService)
			tt.mockSetup(mockService)

			log := logger.NewNoop()
			handler := NewReservationHandler(mockService, log)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(CreateAuthContext(t, userID, "user@test.com", domain.RoleUser))
			w := httptest.NewRecorder()

			handler.CreateReservation(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

// TestReservationHandler_CheckAvailability тестирует проверку доступности окна
func TestReservationHandler_CheckAvailability(t *testing.T) {
	vehicleID := uuid.New()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	tests := []struct {
		name           string
		query          url.Values
		mockSetup      func(*MockReservationService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "окно свободно",
			query: url.Values{
				"start": {start.Format(time.RFC3339)},
				"end":   {end.Format(time.RFC3339)},
			},
			mockSetup: func(m *MockReservationService) {
				m.On("IsAvailable", mock.Anything, vehicleID, start, end).
					Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.True(t, resp["success"].(bool))
				data := resp["data"].(map[string]interface{})
				assert.True(t, data["available"].(bool))
			},
		},
		{
			name: "окно занято",
			query: url.Values{
				"start": {start.Format(time.RFC3339)},
				"end":   {end.Format(time.RFC3339)},
			},
			mockSetup: func(m *MockReservationService) {
				m.On("IsAvailable", mock.Anything, vehicleID, start, end).
					Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				data := resp["data"].(map[string]interface{})
				assert.False(t, data["available"].(bool))
			},
		},
		{
			name: "невалидное время начала",
			query: url.Values{
				"start": {"not-a-time"},
				"end":   {end.Format(time.RFC3339)},
			},
			mockSetup:      func(m *MockReservationService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.False(t, resp["success"].(bool))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockReservationService)
			tt.mockSetup(mockService)

			log := logger.NewNoop()
			handler := NewReservationHandler(mockService, log)

			target := "/api/v1/vehicles/" + vehicleID.String() + "/availability?" + tt.query.Encode()
			req := httptest.NewRequest(http.MethodGet, target, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", vehicleID.String())
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.CheckAvailability(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

// TestReservationHandler_CancelReservation тестирует отмену брони
func TestReservationHandler_CancelReservation(t *testing.T) {
	userID := uuid.New()
	reservationID := uuid.New()

	tests := []struct {
		name           string
		reservationID  string
		setupContext   func() context.Context
		mockSetup      func(*MockReservationService)
		expectedStatus int
	}{
		{
			name:          "успешная отмена",
			reservationID: reservationID.String(),
			setupContext: func() context.Context {
				return CreateAuthContext(t, userID, "user@test.com", domain.RoleUser)
			},
			mockSetup: func(m *MockReservationService) {
				m.On("CancelReservation", mock.Anything, reservationID, userID, domain.RoleUser).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:          "повторная отмена",
			reservationID: reservationID.String(),
			setupContext: func() context.Context {
				return CreateAuthContext(t, userID, "user@test.com", domain.RoleUser)
			},
			mockSetup: func(m *MockReservationService) {
				m.On("CancelReservation", mock.Anything, reservationID, userID, domain.RoleUser).
					Return(domain.ErrReservationNotPending)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:          "чужая бронь",
			reservationID: reservationID.String(),
			setupContext: func() context.Context {
				return CreateAuthContext(t, userID, "user@test.com", domain.RoleUser)
			},
			mockSetup: func(m *MockReservationService) {
				m.On("CancelReservation", mock.Anything, reservationID, userID, domain.RoleUser).
					Return(domain.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:          "бронь не найдена",
			reservationID: reservationID.String(),
			setupContext: func() context.Context {
				return CreateAuthContext(t, userID, "user@test.com", domain.RoleUser)
			},
			mockSetup: func(m *MockReservationService) {
				m.On("CancelReservation", mock.Anything, reservationID, userID, domain.RoleUser).
					Return(domain.ErrReservationNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:          "невалидный ID",
			reservationID: "not-a-uuid",
			setupContext: func() context.Context {
				return CreateAuthContext(t, userID, "user@test.com", domain.RoleUser)
			},
			mockSetup:      func(m *MockReservationService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockReservationService)
			tt.mockSetup(mockService)

			log := logger.NewNoop()
			handler := NewReservationHandler(mockService, log)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/"+tt.reservationID, nil)
			req = req.WithContext(tt.setupContext())

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.reservationID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.CancelReservation(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
