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

type PlanRepoMock struct{ mock.Mock }

func (m *PlanRepoMock) CreatePlan(ctx context.Context, plan models.Plan) (uuid.UUID, error) {
	args := m.Called(ctx, plan)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
func (m *PlanRepoMock) ReadPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}
func (m *PlanRepoMock) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}
func (m *PlanRepoMock) UpdatePlan(ctx context.Context, plan models.Plan, id uuid.UUID) (int, error) {
	args := m.Called(ctx, plan, id)
	return args.Int(0), args.Error(1)
}
func (m *PlanRepoMock) RemovePlan(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *PlanRepoMock) CountSubscriptionsByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	args := m.Called(ctx, planID)
	return args.Int(0), args.Error(1)
}

func TestPlanService_Create_NormalizesPlan(t *testing.T) {
	newID := uuid.New()

	tests := []struct {
		name  string
		req   models.DummyPlan
		check func(plan models.Plan) bool
	}{
		{
			name: "lifetime plan loses duration",
			req: models.DummyPlan{
				Name:         "Forever",
				IsLifetime:   true,
				Duration:     12,
				DurationType: models.DurationMonth,
			},
			check: func(plan models.Plan) bool {
				return plan.Duration == 0 && plan.DurationType == models.DurationLifetime
			},
		},
		{
			name: "non-trial plan loses trial days",
			req: models.DummyPlan{
				Name:      "Standard",
				TrialDays: 14,
			},
			check: func(plan models.Plan) bool {
				return plan.TrialDays == 0
			},
		},
		{
			name: "trial plan keeps trial days",
			req: models.DummyPlan{
				Name:      "Trial",
				IsTrial:   true,
				TrialDays: 14,
			},
			check: func(plan models.Plan) bool {
				return plan.TrialDays == 14
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(PlanRepoMock)
			cacheMock := new(CacheMock)

			repoMock.On("CreatePlan", mock.Anything, mock.MatchedBy(tt.check)).Return(newID, nil).Once()
			cacheMock.On("Invalidate", "plans:list").Return(nil).Once()

			svc := NewPlanService(repoMock, cacheMock, newNoopLogger())
			id, err := svc.Create(context.Background(), tt.req)

			require.NoError(t, err)
			assert.Equal(t, newID, id)
			repoMock.AssertExpectations(t)
		})
	}
}

func TestPlanService_List_UsesCache(t *testing.T) {
	repoMock := new(PlanRepoMock)
	cacheMock := new(CacheMock)

	cacheMock.On("Get", "plans:list", mock.Anything).Return(true, nil).Once()

	svc := NewPlanService(repoMock, cacheMock, newNoopLogger())
	_, err := svc.List(context.Background())

	require.NoError(t, err)
	repoMock.AssertNotCalled(t, "ListPlans", mock.Anything)
	cacheMock.AssertExpectations(t)
}

func TestPlanService_List_FallsBackToRepo(t *testing.T) {
	repoMock := new(PlanRepoMock)
	cacheMock := new(CacheMock)
	plans := []*models.Plan{{ID: uuid.New(), Name: "Standard"}}

	cacheMock.On("Get", "plans:list", mock.Anything).Return(false, nil).Once()
	repoMock.On("ListPlans", mock.Anything).Return(plans, nil).Once()
	cacheMock.On("Set", "plans:list", plans, time.Hour).Return(nil).Once()

	svc := NewPlanService(repoMock, cacheMock, newNoopLogger())
	res, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, plans, res)
	repoMock.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestPlanService_Remove_RejectsPlanInUse(t *testing.T) {
	repoMock := new(PlanRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()

	repoMock.On("CountSubscriptionsByPlan", mock.Anything, id).Return(3, nil).Once()

	svc := NewPlanService(repoMock, cacheMock, newNoopLogger())
	_, err := svc.Remove(context.Background(), id)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlanInUse)
	repoMock.AssertNotCalled(t, "RemovePlan", mock.Anything, mock.Anything)
	repoMock.AssertExpectations(t)
}

func TestPlanService_Remove_UnusedPlan(t *testing.T) {
	repoMock := new(PlanRepoMock)
	cacheMock := new(CacheMock)
	id := uuid.New()

	repoMock.On("CountSubscriptionsByPlan", mock.Anything, id).Return(0, nil).Once()
	repoMock.On("RemovePlan", mock.Anything, id).Return(1, nil).Once()
	cacheMock.On("Invalidate", "plans:list").Return(nil).Once()

	svc := NewPlanService(repoMock, cacheMock, newNoopLogger())
	count, err := svc.Remove(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	repoMock.AssertExpectations(t)
}
