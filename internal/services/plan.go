// Package services содержит бизнес-логику для управления тарифными планами.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// ErrPlanInUse возвращается при попытке удалить план,
// на который ссылаются подписки.
var ErrPlanInUse = errors.New("plan is referenced by subscriptions")

// PlanRepository определяет методы для работы с планами в хранилище.
type PlanRepository interface {
	CreatePlan(ctx context.Context, plan models.Plan) (uuid.UUID, error)
	ReadPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	ListPlans(ctx context.Context) ([]*models.Plan, error)
	UpdatePlan(ctx context.Context, plan models.Plan, id uuid.UUID) (int, error)
	RemovePlan(ctx context.Context, id uuid.UUID) (int, error)
	CountSubscriptionsByPlan(ctx context.Context, planID uuid.UUID) (int, error)
}

const plansCacheKey = "plans:list"

// PlanService реализует бизнес-логику работы с планами, включая кеширование
// списка: список планов читается при каждой активации компании.
type PlanService struct {
	repo  PlanRepository
	cache Cache
	log   *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, cache Cache, log *slog.Logger) *PlanService {
	return &PlanService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новый план и возвращает его ID. Взаимоисключающие поля
// нормализуются: у бессрочного плана нет срока, у непробного - пробных дней.
func (s *PlanService) Create(ctx context.Context, req models.DummyPlan) (uuid.UUID, error) {
	const op = "services.plan.Create"

	plan := planFromRequest(req)
	plan.Normalize()

	id, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateList()
	s.log.Info("created new plan", slog.String("id", id.String()), slog.String("name", plan.Name))
	return id, nil
}

// Read возвращает план по ID.
func (s *PlanService) Read(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	return s.repo.ReadPlan(ctx, id)
}

// List возвращает все планы, используя кеш или репозиторий.
func (s *PlanService) List(ctx context.Context) ([]*models.Plan, error) {
	var result []*models.Plan
	found, err := s.cache.Get(plansCacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(plansCacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache plans", slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет план по ID.
func (s *PlanService) Update(ctx context.Context, req models.DummyPlan, id uuid.UUID) (int, error) {
	const op = "services.plan.Update"

	plan := planFromRequest(req)
	plan.Normalize()

	res, err := s.repo.UpdatePlan(ctx, plan, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateList()
	s.log.Info("updated plan", slog.String("id", id.String()))
	return res, nil
}

// Remove удаляет план по ID. План, на который ссылаются подписки,
// удалить нельзя.
func (s *PlanService) Remove(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "services.plan.Remove"

	count, err := s.repo.CountSubscriptionsByPlan(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrPlanInUse)
	}

	res, err := s.repo.RemovePlan(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateList()
	return res, nil
}

func (s *PlanService) invalidateList() {
	if err := s.cache.Invalidate(plansCacheKey); err != nil {
		s.log.Warn("failed to invalidate plans cache", slog.Any("err", err))
	}
}

func planFromRequest(req models.DummyPlan) models.Plan {
	return models.Plan{
		Name:         req.Name,
		Price:        req.Price,
		IsTrial:      req.IsTrial,
		TrialDays:    req.TrialDays,
		Duration:     req.Duration,
		DurationType: req.DurationType,
		IsLifetime:   req.IsLifetime,
		IsActive:     req.IsActive,
		IsDefault:    req.IsDefault,
	}
}
