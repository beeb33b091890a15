package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
	"github.com/magabrotheeeer/review-dashboard/internal/storage/repository"
)

type CompanyRepoMock struct{ mock.Mock }

func (m *CompanyRepoMock) CreateCompany(ctx context.Context, company models.Company) (uuid.UUID, error) {
	args := m.Called(ctx, company)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
func (m *CompanyRepoMock) ReadCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}
func (m *CompanyRepoMock) ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}
func (m *CompanyRepoMock) UpdateCompany(ctx context.Context, company models.Company, id uuid.UUID) (int, error) {
	args := m.Called(ctx, company, id)
	return args.Int(0), args.Error(1)
}
func (m *CompanyRepoMock) UpdateCompanyStatus(ctx context.Context, id uuid.UUID, status, paymentStatus string) (int, error) {
	args := m.Called(ctx, id, status, paymentStatus)
	return args.Int(0), args.Error(1)
}
func (m *CompanyRepoMock) UpdateCompanyPaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (int, error) {
	args := m.Called(ctx, id, paymentStatus)
	return args.Int(0), args.Error(1)
}
func (m *CompanyRepoMock) RemoveCompany(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *CompanyRepoMock) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}
func (m *CompanyRepoMock) FindLatestSubscription(ctx context.Context, companyID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *CompanyRepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (uuid.UUID, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
func (m *CompanyRepoMock) UpdateSubscription(ctx context.Context, sub models.Subscription, id uuid.UUID) (int, error) {
	args := m.Called(ctx, sub, id)
	return args.Int(0), args.Error(1)
}
func (m *CompanyRepoMock) UpdateSubscriptionPayment(ctx context.Context, id uuid.UUID, status string, isTrial bool) (int, error) {
	args := m.Called(ctx, id, status, isTrial)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func paidPlanFixture() *models.Plan {
	return &models.Plan{
		ID:           uuid.New(),
		Name:         "Standard",
		Price:        990,
		Duration:     1,
		DurationType: models.DurationMonth,
		IsActive:     true,
	}
}

func trialPlanFixture() *models.Plan {
	return &models.Plan{
		ID:        uuid.New(),
		Name:      "Trial",
		IsTrial:   true,
		TrialDays: 14,
		IsActive:  true,
	}
}

func TestCompanyService_SetStatus_NoopWhenAlreadyInTargetStatus(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()

	repoMock.On("ReadCompany", mock.Anything, id).
		Return(&models.Company{ID: id, Status: models.CompanyStatusActive}, nil).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	res, err := svc.SetStatus(context.Background(), id, true)

	require.NoError(t, err)
	assert.False(t, res.Updated)
	repoMock.AssertNotCalled(t, "UpdateCompanyStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_SetStatus_DeactivationNeverTouchesSubscriptions(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()

	repoMock.On("ReadCompany", mock.Anything, id).
		Return(&models.Company{ID: id, Status: models.CompanyStatusActive, PaymentStatus: models.PaymentStatusPaid}, nil).Once()
	repoMock.On("UpdateCompanyStatus", mock.Anything, id,
		models.CompanyStatusInactive, models.PaymentStatusTrial).Return(1, nil).Once()
	cacheMock.On("Invalidate", "company:"+id.String()).Return(nil).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	res, err := svc.SetStatus(context.Background(), id, false)

	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, models.CompanyStatusInactive, res.Company.Status)
	assert.Equal(t, models.PaymentStatusTrial, res.Company.PaymentStatus)
	assert.Nil(t, res.Subscription)
	repoMock.AssertNotCalled(t, "FindLatestSubscription", mock.Anything, mock.Anything)
	repoMock.AssertNotCalled(t, "UpdateSubscription", mock.Anything, mock.Anything, mock.Anything)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_SetStatus_ActivationUpdatesExistingSubscription(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()
	plan := paidPlanFixture()
	latest := &models.Subscription{ID: uuid.New(), CompanyID: id}

	repoMock.On("ReadCompany", mock.Anything, id).
		Return(&models.Company{ID: id, Status: models.CompanyStatusInactive}, nil).Once()
	repoMock.On("UpdateCompanyStatus", mock.Anything, id,
		models.CompanyStatusActive, models.PaymentStatusPaid).Return(1, nil).Once()
	cacheMock.On("Invalidate", "company:"+id.String()).Return(nil).Once()
	// Пробный план стоит первым, но для активации выбирается платный.
	repoMock.On("ListPlans", mock.Anything).
		Return([]*models.Plan{trialPlanFixture(), plan}, nil).Once()
	repoMock.On("FindLatestSubscription", mock.Anything, id).Return(latest, nil).Once()
	repoMock.On("UpdateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		return sub.CompanyID == id &&
			sub.PlanID == plan.ID &&
			sub.Status == models.SubscriptionStatusPaid &&
			!sub.IsTrial &&
			sub.EndDate.After(sub.StartDate)
	}), latest.ID).Return(1, nil).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	res, err := svc.SetStatus(context.Background(), id, true)

	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, models.CompanyStatusActive, res.Company.Status)
	assert.Equal(t, models.PaymentStatusPaid, res.Company.PaymentStatus)
	require.NotNil(t, res.Subscription)
	assert.False(t, res.SubscriptionCreated)
	assert.Equal(t, latest.ID, res.Subscription.ID)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_SetStatus_ActivationCreatesSubscriptionWhenMissing(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()
	plan := paidPlanFixture()
	newSubID := uuid.New()

	repoMock.On("ReadCompany", mock.Anything, id).
		Return(&models.Company{ID: id, Status: models.CompanyStatusInactive}, nil).Once()
	repoMock.On("UpdateCompanyStatus", mock.Anything, id,
		models.CompanyStatusActive, models.PaymentStatusPaid).Return(1, nil).Once()
	cacheMock.On("Invalidate", "company:"+id.String()).Return(nil).Once()
	repoMock.On("ListPlans", mock.Anything).Return([]*models.Plan{plan}, nil).Once()
	repoMock.On("FindLatestSubscription", mock.Anything, id).
		Return(nil, repository.ErrNotFound).Once()
	repoMock.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		return sub.CompanyID == id && sub.PlanID == plan.ID
	})).Return(newSubID, nil).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	res, err := svc.SetStatus(context.Background(), id, true)

	require.NoError(t, err)
	assert.True(t, res.SubscriptionCreated)
	require.NotNil(t, res.Subscription)
	assert.Equal(t, newSubID, res.Subscription.ID)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_SetStatus_ActivationWithoutPaidPlanIsWarning(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()
	lifetime := &models.Plan{ID: uuid.New(), Name: "Forever", IsLifetime: true, IsActive: true}

	repoMock.On("ReadCompany", mock.Anything, id).
		Return(&models.Company{ID: id, Status: models.CompanyStatusInactive}, nil).Once()
	repoMock.On("UpdateCompanyStatus", mock.Anything, id,
		models.CompanyStatusActive, models.PaymentStatusPaid).Return(1, nil).Once()
	cacheMock.On("Invalidate", "company:"+id.String()).Return(nil).Once()
	repoMock.On("ListPlans", mock.Anything).
		Return([]*models.Plan{trialPlanFixture(), lifetime}, nil).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	res, err := svc.SetStatus(context.Background(), id, true)

	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.True(t, res.NoPaidPlan)
	assert.Nil(t, res.Subscription)
	repoMock.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_SetStatus_SubscriptionWriteFailureIsPartial(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()
	plan := paidPlanFixture()
	latest := &models.Subscription{ID: uuid.New(), CompanyID: id}

	repoMock.On("ReadCompany", mock.Anything, id).
		Return(&models.Company{ID: id, Status: models.CompanyStatusInactive}, nil).Once()
	repoMock.On("UpdateCompanyStatus", mock.Anything, id,
		models.CompanyStatusActive, models.PaymentStatusPaid).Return(1, nil).Once()
	cacheMock.On("Invalidate", "company:"+id.String()).Return(nil).Once()
	repoMock.On("ListPlans", mock.Anything).Return([]*models.Plan{plan}, nil).Once()
	repoMock.On("FindLatestSubscription", mock.Anything, id).Return(latest, nil).Once()
	repoMock.On("UpdateSubscription", mock.Anything, mock.Anything, latest.ID).
		Return(0, errors.New("db down")).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	_, err := svc.SetStatus(context.Background(), id, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubscriptionSync)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_SetPaymentStatus_RejectsInactiveCompany(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()

	repoMock.On("ReadCompany", mock.Anything, id).
		Return(&models.Company{ID: id, Status: models.CompanyStatusInactive}, nil).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	_, err := svc.SetPaymentStatus(context.Background(), id, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompanyInactive)
	repoMock.AssertNotCalled(t, "UpdateCompanyPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_SetPaymentStatus_SyncsLatestSubscription(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()
	latest := &models.Subscription{ID: uuid.New(), CompanyID: id}

	repoMock.On("ReadCompany", mock.Anything, id).
		Return(&models.Company{ID: id, Status: models.CompanyStatusActive, PaymentStatus: models.PaymentStatusPaid}, nil).Once()
	repoMock.On("UpdateCompanyPaymentStatus", mock.Anything, id, models.PaymentStatusTrial).
		Return(1, nil).Once()
	cacheMock.On("Invalidate", "company:"+id.String()).Return(nil).Once()
	repoMock.On("FindLatestSubscription", mock.Anything, id).Return(latest, nil).Once()
	repoMock.On("UpdateSubscriptionPayment", mock.Anything, latest.ID,
		models.PaymentStatusTrial, true).Return(1, nil).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	res, err := svc.SetPaymentStatus(context.Background(), id, false)

	require.NoError(t, err)
	assert.True(t, res.SubscriptionSynced)
	assert.Equal(t, models.PaymentStatusTrial, res.Company.PaymentStatus)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_SetPaymentStatus_MissingSubscriptionIsFine(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()

	repoMock.On("ReadCompany", mock.Anything, id).
		Return(&models.Company{ID: id, Status: models.CompanyStatusActive}, nil).Once()
	repoMock.On("UpdateCompanyPaymentStatus", mock.Anything, id, models.PaymentStatusPaid).
		Return(1, nil).Once()
	cacheMock.On("Invalidate", "company:"+id.String()).Return(nil).Once()
	repoMock.On("FindLatestSubscription", mock.Anything, id).
		Return(nil, repository.ErrNotFound).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	res, err := svc.SetPaymentStatus(context.Background(), id, true)

	require.NoError(t, err)
	assert.False(t, res.SubscriptionSynced)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_Create_DefaultsToInactiveTrial(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	newID := uuid.New()

	repoMock.On("CreateCompany", mock.Anything, mock.MatchedBy(func(c models.Company) bool {
		return c.Status == models.CompanyStatusInactive &&
			c.PaymentStatus == models.PaymentStatusTrial &&
			c.Name == "ACME"
	})).Return(newID, nil).Once()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	id, err := svc.Create(context.Background(), models.DummyCompany{
		Name:  "ACME",
		Email: "acme@example.com",
		Phone: "+100000000",
	})

	require.NoError(t, err)
	assert.Equal(t, newID, id)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_BulkRemove(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	for _, id := range ids {
		repoMock.On("RemoveCompany", mock.Anything, id).Return(1, nil).Once()
		cacheMock.On("Invalidate", "company:"+id.String()).Return(nil).Once()
	}

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	count, err := svc.BulkRemove(context.Background(), ids)

	require.NoError(t, err)
	assert.Equal(t, len(ids), count)
	repoMock.AssertExpectations(t)
}

func TestCompanyService_BulkRemove_PartialFailure(t *testing.T) {
	repoMock := new(CompanyRepoMock)
	cacheMock := new(CacheMock)
	good, bad := uuid.New(), uuid.New()

	repoMock.On("RemoveCompany", mock.Anything, good).Return(1, nil).Maybe()
	repoMock.On("RemoveCompany", mock.Anything, bad).Return(0, errors.New("db down")).Once()
	cacheMock.On("Invalidate", mock.Anything).Return(nil).Maybe()

	svc := NewCompanyService(repoMock, cacheMock, newNoopLogger())
	_, err := svc.BulkRemove(context.Background(), []uuid.UUID{good, bad})

	require.Error(t, err)
}
