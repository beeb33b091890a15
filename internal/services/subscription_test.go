package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

type SubscriptionRepoMock struct{ mock.Mock }

func (m *SubscriptionRepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (uuid.UUID, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
func (m *SubscriptionRepoMock) ReadSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *SubscriptionRepoMock) ListSubscriptionInfos(ctx context.Context, limit, offset int) ([]*models.SubscriptionInfo, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionInfo), args.Error(1)
}
func (m *SubscriptionRepoMock) UpdateSubscription(ctx context.Context, sub models.Subscription, id uuid.UUID) (int, error) {
	args := m.Called(ctx, sub, id)
	return args.Int(0), args.Error(1)
}
func (m *SubscriptionRepoMock) RemoveSubscription(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *SubscriptionRepoMock) ReadCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}
func (m *SubscriptionRepoMock) ReadPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}
func (m *SubscriptionRepoMock) UpdateCompanyStatus(ctx context.Context, id uuid.UUID, status, paymentStatus string) (int, error) {
	args := m.Called(ctx, id, status, paymentStatus)
	return args.Int(0), args.Error(1)
}

func TestSubscriptionService_Create(t *testing.T) {
	companyID := uuid.New()
	planID := uuid.New()
	newID := uuid.New()
	plan := &models.Plan{
		ID:           planID,
		Name:         "Standard",
		Duration:     1,
		DurationType: models.DurationMonth,
		IsActive:     true,
	}

	tests := []struct {
		name       string
		company    *models.Company
		req        models.DummySubscription
		wantStatus string
		wantTrial  bool
		// дней от начала до вычисленной даты окончания
		wantDays int
	}{
		{
			name:    "paid company gets paid subscription for plan duration",
			company: &models.Company{ID: companyID, Status: models.CompanyStatusActive, PaymentStatus: models.PaymentStatusPaid},
			req: models.DummySubscription{
				CompanyID: companyID.String(),
				PlanID:    planID.String(),
				StartDate: "01-01-2024",
			},
			wantStatus: models.SubscriptionStatusPaid,
			wantTrial:  false,
			wantDays:   30,
		},
		{
			name:    "unpaid company falls back to seven day trial",
			company: &models.Company{ID: companyID, Status: models.CompanyStatusActive, PaymentStatus: models.PaymentStatusTrial},
			req: models.DummySubscription{
				CompanyID: companyID.String(),
				PlanID:    planID.String(),
				StartDate: "01-01-2024",
			},
			wantStatus: models.SubscriptionStatusTrial,
			wantTrial:  true,
			wantDays:   7,
		},
		{
			name:    "inactive company is never paid",
			company: &models.Company{ID: companyID, Status: models.CompanyStatusInactive, PaymentStatus: models.PaymentStatusPaid},
			req: models.DummySubscription{
				CompanyID: companyID.String(),
				PlanID:    planID.String(),
				StartDate: "01-01-2024",
			},
			wantStatus: models.SubscriptionStatusTrial,
			wantTrial:  true,
			wantDays:   7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(SubscriptionRepoMock)
			cacheMock := new(CacheMock)

			repoMock.On("ReadCompany", mock.Anything, companyID).Return(tt.company, nil).Once()
			repoMock.On("ReadPlan", mock.Anything, planID).Return(plan, nil).Once()

			start, err := time.Parse("02-01-2006", tt.req.StartDate)
			require.NoError(t, err)
			repoMock.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
				return sub.Status == tt.wantStatus &&
					sub.IsTrial == tt.wantTrial &&
					sub.EndDate.Equal(start.AddDate(0, 0, tt.wantDays))
			})).Return(newID, nil).Once()
			cacheMock.On("Set", "subscription:"+newID.String(), mock.Anything, time.Hour).Return(nil).Once()

			svc := NewSubscriptionService(repoMock, cacheMock, newNoopLogger())
			id, err := svc.Create(context.Background(), tt.req)

			require.NoError(t, err)
			assert.Equal(t, newID, id)
			repoMock.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Create_ExplicitEndDateWins(t *testing.T) {
	companyID := uuid.New()
	planID := uuid.New()
	newID := uuid.New()

	repoMock := new(SubscriptionRepoMock)
	cacheMock := new(CacheMock)

	repoMock.On("ReadCompany", mock.Anything, companyID).
		Return(&models.Company{ID: companyID, Status: models.CompanyStatusActive, PaymentStatus: models.PaymentStatusPaid}, nil).Once()
	repoMock.On("ReadPlan", mock.Anything, planID).
		Return(&models.Plan{ID: planID, Duration: 1, DurationType: models.DurationYear}, nil).Once()

	wantEnd, _ := time.Parse("02-01-2006", "15-03-2024")
	repoMock.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		return sub.EndDate.Equal(wantEnd)
	})).Return(newID, nil).Once()
	cacheMock.On("Set", mock.Anything, mock.Anything, time.Hour).Return(nil).Once()

	svc := NewSubscriptionService(repoMock, cacheMock, newNoopLogger())
	_, err := svc.Create(context.Background(), models.DummySubscription{
		CompanyID: companyID.String(),
		PlanID:    planID.String(),
		StartDate: "01-01-2024",
		EndDate:   "15-03-2024",
	})

	require.NoError(t, err)
	repoMock.AssertExpectations(t)
}

func TestSubscriptionService_Create_InvalidDate(t *testing.T) {
	repoMock := new(SubscriptionRepoMock)
	cacheMock := new(CacheMock)

	svc := NewSubscriptionService(repoMock, cacheMock, newNoopLogger())
	_, err := svc.Create(context.Background(), models.DummySubscription{
		CompanyID: uuid.New().String(),
		PlanID:    uuid.New().String(),
		StartDate: "2024-01-01",
	})

	require.Error(t, err)
	repoMock.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
}

func TestSubscriptionService_List_DerivesDisplayStatus(t *testing.T) {
	now := time.Now().UTC().Truncate(24 * time.Hour)

	infos := []*models.SubscriptionInfo{
		{
			// Активная оплаченная подписка с запасом времени.
			Subscription: models.Subscription{
				Status:    models.SubscriptionStatusPaid,
				StartDate: now.AddDate(0, 0, -10),
				EndDate:   now.AddDate(0, 0, 20),
			},
			CompanyStatus:        models.CompanyStatusActive,
			CompanyPaymentStatus: models.PaymentStatusPaid,
		},
		{
			// Подписка неактивной компании всегда deactivated.
			Subscription: models.Subscription{
				Status:    models.SubscriptionStatusPaid,
				StartDate: now.AddDate(0, 0, -10),
				EndDate:   now.AddDate(0, 0, 20),
			},
			CompanyStatus:        models.CompanyStatusInactive,
			CompanyPaymentStatus: models.PaymentStatusPaid,
		},
		{
			// Срок скоро кончается.
			Subscription: models.Subscription{
				Status:    models.SubscriptionStatusPaid,
				StartDate: now.AddDate(0, 0, -28),
				EndDate:   now.AddDate(0, 0, 2),
			},
			CompanyStatus:        models.CompanyStatusActive,
			CompanyPaymentStatus: models.PaymentStatusPaid,
		},
		{
			// Срок вышел.
			Subscription: models.Subscription{
				Status:    models.SubscriptionStatusPaid,
				StartDate: now.AddDate(0, 0, -40),
				EndDate:   now.AddDate(0, 0, -5),
			},
			CompanyStatus:        models.CompanyStatusActive,
			CompanyPaymentStatus: models.PaymentStatusPaid,
		},
	}

	repoMock := new(SubscriptionRepoMock)
	cacheMock := new(CacheMock)
	repoMock.On("ListSubscriptionInfos", mock.Anything, 10, 0).Return(infos, nil).Once()

	svc := NewSubscriptionService(repoMock, cacheMock, newNoopLogger())
	res, err := svc.List(context.Background(), 10, 0)

	require.NoError(t, err)
	require.Len(t, res, 4)

	assert.Equal(t, models.DisplayStatusActive, res[0].DisplayStatus)
	assert.Equal(t, 20, res[0].DaysLeft)
	assert.Equal(t, models.PaymentLabelPaid, res[0].CompanyPaymentLabel)

	assert.Equal(t, models.DisplayStatusDeactivated, res[1].DisplayStatus)
	assert.Equal(t, 0, res[1].DaysLeft)
	assert.Equal(t, models.PaymentLabelUnpaid, res[1].CompanyPaymentLabel)

	assert.Equal(t, models.DisplayStatusExpiring, res[2].DisplayStatus)
	assert.Equal(t, 2, res[2].DaysLeft)

	assert.Equal(t, models.DisplayStatusExpired, res[3].DisplayStatus)
	assert.Equal(t, 0, res[3].DaysLeft)

	repoMock.AssertExpectations(t)
}

func TestSubscriptionService_Remove_DeactivatesCompany(t *testing.T) {
	id := uuid.New()
	companyID := uuid.New()

	repoMock := new(SubscriptionRepoMock)
	cacheMock := new(CacheMock)

	repoMock.On("ReadSubscription", mock.Anything, id).
		Return(&models.Subscription{ID: id, CompanyID: companyID}, nil).Once()
	cacheMock.On("Invalidate", "subscription:"+id.String()).Return(nil).Once()
	repoMock.On("RemoveSubscription", mock.Anything, id).Return(1, nil).Once()
	repoMock.On("UpdateCompanyStatus", mock.Anything, companyID,
		models.CompanyStatusInactive, models.PaymentStatusTrial).Return(1, nil).Once()
	cacheMock.On("Invalidate", "company:"+companyID.String()).Return(nil).Once()

	svc := NewSubscriptionService(repoMock, cacheMock, newNoopLogger())
	count, err := svc.Remove(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	repoMock.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}
