// Package services содержит бизнес-логику для управления подписками
// и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/lib/lifecycle"
	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// Формат дат в запросах: день-месяц-год.
const dateLayout = "02-01-2006"

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (uuid.UUID, error)
	ReadSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	ListSubscriptionInfos(ctx context.Context, limit, offset int) ([]*models.SubscriptionInfo, error)
	UpdateSubscription(ctx context.Context, sub models.Subscription, id uuid.UUID) (int, error)
	RemoveSubscription(ctx context.Context, id uuid.UUID) (int, error)

	ReadCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ReadPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	UpdateCompanyStatus(ctx context.Context, id uuid.UUID, status, paymentStatus string) (int, error)
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новую подписку и возвращает её ID.
//
// Статус подписки выводится из статуса оплаты компании: оплаченная компания
// получает paid-подписку, остальные - trial. Дата окончания вычисляется из
// плана, если не указана явно.
func (s *SubscriptionService) Create(ctx context.Context, req models.DummySubscription) (uuid.UUID, error) {
	const op = "services.subscription.Create"

	sub, err := s.buildEntry(ctx, req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateSubscription(ctx, *sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = id

	s.log.Info("created new subscription", slog.String("id", id.String()))

	cacheKey := subscriptionCacheKey(id)
	if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
func (s *SubscriptionService) Read(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := subscriptionCacheKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
			slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет подписку и обновляет кеш.
func (s *SubscriptionService) Update(ctx context.Context, req models.DummySubscription, id uuid.UUID) (int, error) {
	const op = "services.subscription.Update"

	sub, err := s.buildEntry(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = id

	res, err := s.repo.UpdateSubscription(ctx, *sub, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated subscription in storage", slog.String("id", id.String()))

	cacheKey := subscriptionCacheKey(id)
	if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// List возвращает подписки, обогащённые данными компании и плана,
// с вычисленным отображаемым статусом и количеством оставшихся дней.
func (s *SubscriptionService) List(ctx context.Context, limit, offset int) ([]*models.SubscriptionInfo, error) {
	const op = "services.subscription.List"

	infos, err := s.repo.ListSubscriptionInfos(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	for _, info := range infos {
		companyActive := info.CompanyStatus == models.CompanyStatusActive
		info.DisplayStatus, info.DaysLeft = lifecycle.DeriveStatus(
			info.Subscription, companyActive, info.PlanTrialDays, now)
		if companyActive && info.CompanyPaymentStatus == models.PaymentStatusPaid {
			info.CompanyPaymentLabel = models.PaymentLabelPaid
		} else {
			info.CompanyPaymentLabel = models.PaymentLabelUnpaid
		}
	}
	return infos, nil
}

// Remove удаляет подписку по ID. Компания без подписки не может оставаться
// активной, поэтому она принудительно переводится в inactive/trial.
func (s *SubscriptionService) Remove(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "services.subscription.Remove"

	sub, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	cacheKey := subscriptionCacheKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveSubscription(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.repo.UpdateCompanyStatus(ctx, sub.CompanyID,
		models.CompanyStatusInactive, models.PaymentStatusTrial); err != nil {
		return 0, fmt.Errorf("%s: subscription removed but company deactivation failed: %w", op, err)
	}
	if err := s.cache.Invalidate(fmt.Sprintf("company:%s", sub.CompanyID)); err != nil {
		s.log.Warn("failed to invalidate company cache", slog.Any("err", err))
	}

	s.log.Info("removed subscription, company deactivated",
		slog.String("id", id.String()), slog.String("company_id", sub.CompanyID.String()))
	return count, nil
}

// buildEntry собирает подписку из запроса, выводя статус из статуса оплаты
// компании и вычисляя дату окончания при её отсутствии. Инвариант
// is_trial == (status == "trial") обеспечивается конструктивно.
func (s *SubscriptionService) buildEntry(ctx context.Context, req models.DummySubscription) (*models.Subscription, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company id: %w", err)
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("invalid plan id: %w", err)
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}

	company, err := s.repo.ReadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.ReadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	isPaid := company.IsPaid()
	status := models.SubscriptionStatusTrial
	trialDays := plan.TrialDays
	if isPaid {
		status = models.SubscriptionStatusPaid
		trialDays = 0
	}

	var endDate time.Time
	if req.EndDate != "" {
		endDate, err = time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
	} else {
		endDate = lifecycle.ComputeEndDate(*plan, startDate, isPaid)
	}

	return &models.Subscription{
		CompanyID: companyID,
		PlanID:    planID,
		Status:    status,
		IsTrial:   !isPaid,
		TrialDays: trialDays,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

func subscriptionCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("subscription:%s", id)
}
