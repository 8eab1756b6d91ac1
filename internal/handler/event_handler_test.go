package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/michel-reyes/coin-copilot/internal/model"
	"github.com/michel-reyes/coin-copilot/internal/service"
	"github.com/michel-reyes/coin-copilot/pkg/datetime"
)

func ctxWithUserID(userID uuid.UUID) context.Context {
	if userID == uuid.Nil {
		return context.Background()
	}
	return context.WithValue(context.Background(), UserIDKey, userID)
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// MockEventService implements EventServiceInterface for testing
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, userID uuid.UUID, input service.CreateEventInput) (*model.EventWithSchedules, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventWithSchedules), args.Error(1)
}

func (m *MockEventService) List(ctx context.Context, userID uuid.UUID) ([]model.EventWithSchedules, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventWithSchedules), args.Error(1)
}

func (m *MockEventService) Get(ctx context.Context, userID, id uuid.UUID) (*model.EventWithSchedules, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventWithSchedules), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, userID, id uuid.UUID, input service.UpdateEventInput) (*model.Event, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockEventService) Reactivate(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockEventService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockEventService) AddSchedule(ctx context.Context, userID, eventID uuid.UUID, input service.CreateScheduleInput) (*model.NotificationSchedule, error) {
	args := m.Called(ctx, userID, eventID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotificationSchedule), args.Error(1)
}

func (m *MockEventService) UpdateSchedule(ctx context.Context, userID, scheduleID uuid.UUID, input service.UpdateScheduleInput) (*model.NotificationSchedule, error) {
	args := m.Called(ctx, userID, scheduleID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotificationSchedule), args.Error(1)
}

func (m *MockEventService) DeleteSchedule(ctx context.Context, userID, scheduleID uuid.UUID) error {
	args := m.Called(ctx, userID, scheduleID)
	return args.Error(0)
}

func TestNewEventHandler(t *testing.T) {
	mockService := new(MockEventService)
	handler := NewEventHandler(mockService)
	assert.NotNil(t, handler)
}

func TestEventHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userID     uuid.UUID
		body       interface{}
		setupMock  func(*MockEventService, uuid.UUID)
		wantStatus int
	}{
		{
			name:   "success",
			userID: uuid.New(),
			body: map[string]interface{}{
				"eventType":      "bill",
				"title":          "Electricity",
				"dueDate":        "2024-06-10",
				"recurrenceType": "monthly",
				"notificationSchedules": []map[string]interface{}{
					{"notificationTime": "09:00:00", "daysBefore": 3},
				},
			},
			setupMock: func(m *MockEventService, userID uuid.UUID) {
				m.On("Create", mock.Anything, userID, mock.AnythingOfType("service.CreateEventInput")).
					Return(&model.EventWithSchedules{
						Event: model.Event{
							ID:     uuid.New(),
							UserID: userID,
							Title:  "Electricity",
						},
					}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unauthorized - nil userID",
			userID:     uuid.Nil,
			body:       map[string]interface{}{},
			setupMock:  func(m *MockEventService, userID uuid.UUID) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid body",
			userID:     uuid.New(),
			body:       "invalid",
			setupMock:  func(m *MockEventService, userID uuid.UUID) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "validation error",
			userID: uuid.New(),
			body: map[string]interface{}{
				"eventType":      "bill",
				"title":          "Rent",
				"dueDate":        "2024-06-01",
				"recurrenceType": "custom",
			},
			setupMock: func(m *MockEventService, userID uuid.UUID) {
				m.On("Create", mock.Anything, userID, mock.AnythingOfType("service.CreateEventInput")).
					Return(nil, service.ErrMissingInterval)
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockEventService)
			handler := NewEventHandler(mockService)
			tt.setupMock(mockService, tt.userID)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(ctxWithUserID(tt.userID))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestEventHandler_Get(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	eventID := uuid.New()

	tests := []struct {
		name       string
		id         string
		setupMock  func(*MockEventService)
		wantStatus int
	}{
		{
			name: "success",
			id:   eventID.String(),
			setupMock: func(m *MockEventService) {
				m.On("Get", mock.Anything, userID, eventID).Return(&model.EventWithSchedules{
					Event: model.Event{
						ID:      eventID,
						UserID:  userID,
						Title:   "Electricity",
						DueDate: datetime.NewDate(2024, time.June, 10),
					},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid id",
			id:         "not-a-uuid",
			setupMock:  func(m *MockEventService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "not found",
			id:   eventID.String(),
			setupMock: func(m *MockEventService) {
				m.On("Get", mock.Anything, userID, eventID).Return(nil, service.ErrEventNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockEventService)
			handler := NewEventHandler(mockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/events/"+tt.id, nil)
			req = req.WithContext(ctxWithUserID(userID))
			req = withChiParam(req, "id", tt.id)
			w := httptest.NewRecorder()

			handler.Get(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestEventHandler_Deactivate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	eventID := uuid.New()

	mockService := new(MockEventService)
	mockService.On("Deactivate", mock.Anything, userID, eventID).Return(nil)
	handler := NewEventHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID.String()+"/deactivate", nil)
	req = req.WithContext(ctxWithUserID(userID))
	req = withChiParam(req, "id", eventID.String())
	w := httptest.NewRecorder()

	handler.Deactivate(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestEventHandler_AddSchedule(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	eventID := uuid.New()

	mockService := new(MockEventService)
	mockService.On("AddSchedule", mock.Anything, userID, eventID, service.CreateScheduleInput{
		NotificationTime: "09:00:00",
		DaysBefore:       1,
	}).Return(&model.NotificationSchedule{
		ID:               uuid.New(),
		EventID:          eventID,
		NotificationTime: "09:00:00",
		DaysBefore:       1,
		IsActive:         true,
	}, nil)
	handler := NewEventHandler(mockService)

	body, _ := json.Marshal(map[string]interface{}{
		"notificationTime": "09:00:00",
		"daysBefore":       1,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID.String()+"/schedules", bytes.NewReader(body))
	req = req.WithContext(ctxWithUserID(userID))
	req = withChiParam(req, "id", eventID.String())
	w := httptest.NewRecorder()

	handler.AddSchedule(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestEventHandler_Delete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	eventID := uuid.New()

	mockService := new(MockEventService)
	mockService.On("Delete", mock.Anything, userID, eventID).Return(nil)
	handler := NewEventHandler(mockService)

	req := httptest.NewRequest(http.MethodDelete, "/api/events/"+eventID.String(), nil)
	req = req.WithContext(ctxWithUserID(userID))
	req = withChiParam(req, "id", eventID.String())
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
