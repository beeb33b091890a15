package reviews

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
	"github.com/magabrotheeeer/review-dashboard/internal/services"
	"github.com/magabrotheeeer/review-dashboard/internal/storage/repository"
)

// MockService реализует интерфейс reviews.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) PublicReviews(ctx context.Context, companyID uuid.UUID) (*services.PublicPage, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PublicPage), args.Error(1)
}

func TestPublicReviewsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	companyID := uuid.New()

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "страница активной компании",
			id:   companyID.String(),
			setupMock: func(m *MockService) {
				m.On("PublicReviews", mock.Anything, companyID).Return(&services.PublicPage{
					CompanyName:     "ACME",
					GoogleReviewURL: "https://www.google.com",
					Reviews:         []*models.Review{},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"company_name":"ACME"`,
		},
		{
			name: "неактивная компания выглядит как отсутствующая",
			id:   companyID.String(),
			setupMock: func(m *MockService) {
				m.On("PublicReviews", mock.Anything, companyID).
					Return(nil, services.ErrCompanyNotActive)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"company not found"`,
		},
		{
			name: "несуществующая компания",
			id:   companyID.String(),
			setupMock: func(m *MockService) {
				m.On("PublicReviews", mock.Anything, companyID).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"company not found"`,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid id"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/public/companies/"+tt.id+"/reviews", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
