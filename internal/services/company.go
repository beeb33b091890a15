// Package services содержит бизнес-логику управления компаниями:
// CRUD, переключение статуса активности и статуса оплаты.
//
// Переключение статусов - единственное место, где состояние компании
// каскадно влияет на подписку. Активация компании разворачивается в сагу:
// патч компании, затем создание или обновление подписки. Транзакции между
// этими шагами нет, окно несогласованности принято осознанно - при ошибке
// второго шага вызывается отдельная ошибка ErrSubscriptionSync, чтобы
// вызывающая сторона не считала, что патч компании не применился.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/review-dashboard/internal/lib/lifecycle"
	"github.com/magabrotheeeer/review-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/review-dashboard/internal/models"
	"github.com/magabrotheeeer/review-dashboard/internal/storage/repository"
)

// ErrCompanyInactive возвращается при попытке переключить статус оплаты
// неактивной компании: для неё этот переключатель недоступен.
var ErrCompanyInactive = errors.New("company is inactive")

// ErrSubscriptionSync возвращается, когда патч компании применился,
// а запись подписки - нет.
var ErrSubscriptionSync = errors.New("company updated but subscription write failed")

// CompanyRepository определяет методы хранилища, нужные сервису компаний.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company models.Company) (uuid.UUID, error)
	ReadCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, company models.Company, id uuid.UUID) (int, error)
	UpdateCompanyStatus(ctx context.Context, id uuid.UUID, status, paymentStatus string) (int, error)
	UpdateCompanyPaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (int, error)
	RemoveCompany(ctx context.Context, id uuid.UUID) (int, error)

	ListPlans(ctx context.Context) ([]*models.Plan, error)
	FindLatestSubscription(ctx context.Context, companyID uuid.UUID) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (uuid.UUID, error)
	UpdateSubscription(ctx context.Context, sub models.Subscription, id uuid.UUID) (int, error)
	UpdateSubscriptionPayment(ctx context.Context, id uuid.UUID, status string, isTrial bool) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CompanyService реализует бизнес-логику работы с компаниями.
type CompanyService struct {
	repo  CompanyRepository
	cache Cache
	log   *slog.Logger
}

// NewCompanyService создает новый экземпляр CompanyService.
func NewCompanyService(repo CompanyRepository, cache Cache, log *slog.Logger) *CompanyService {
	return &CompanyService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// StatusResult описывает исход переключения статуса компании.
type StatusResult struct {
	// Updated false, если компания уже была в целевом статусе.
	Updated bool `json:"updated"`
	// Company - состояние компании после операции.
	Company *models.Company `json:"company"`
	// Subscription - созданная или обновлённая подписка (только при активации).
	Subscription *models.Subscription `json:"subscription,omitempty"`
	// SubscriptionCreated true, если подписка была создана, а не обновлена.
	SubscriptionCreated bool `json:"subscription_created,omitempty"`
	// NoPaidPlan true, если активация прошла, но подходящего платного плана
	// не нашлось и подписка не записывалась. Это предупреждение, не ошибка.
	NoPaidPlan bool `json:"no_paid_plan,omitempty"`
}

// SetStatus переключает компанию между active и inactive.
//
// Деактивация дополнительно сбрасывает статус оплаты в trial и никогда не
// трогает записи подписок - история подписок сохраняется, а "неоплаченность"
// неактивной компании выводится при отображении.
//
// Активация ставит статус оплаты paid и назначает компании первый активный
// платный план из списка (не пробный и не бессрочный): существующая
// последняя подписка обновляется, иначе создаётся новая. Повторный вызов
// с тем же целевым статусом - no-op.
func (s *CompanyService) SetStatus(ctx context.Context, id uuid.UUID, activate bool) (*StatusResult, error) {
	const op = "services.company.SetStatus"

	company, err := s.repo.ReadCompany(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	target := models.CompanyStatusInactive
	if activate {
		target = models.CompanyStatusActive
	}
	if company.Status == target {
		return &StatusResult{Updated: false, Company: company}, nil
	}

	if !activate {
		if _, err := s.repo.UpdateCompanyStatus(ctx, id, models.CompanyStatusInactive, models.PaymentStatusTrial); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		company.Status = models.CompanyStatusInactive
		company.PaymentStatus = models.PaymentStatusTrial
		s.invalidateCompany(id)
		s.log.Info("company deactivated", slog.String("id", id.String()))
		return &StatusResult{Updated: true, Company: company}, nil
	}

	if _, err := s.repo.UpdateCompanyStatus(ctx, id, models.CompanyStatusActive, models.PaymentStatusPaid); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	company.Status = models.CompanyStatusActive
	company.PaymentStatus = models.PaymentStatusPaid
	s.invalidateCompany(id)

	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrSubscriptionSync, err)
	}
	paidPlan := findPaidPlan(plans)
	if paidPlan == nil {
		s.log.Warn("company activated but no paid plan available", slog.String("id", id.String()))
		return &StatusResult{Updated: true, Company: company, NoPaidPlan: true}, nil
	}

	now := time.Now()
	sub := models.Subscription{
		CompanyID: id,
		PlanID:    paidPlan.ID,
		Status:    models.SubscriptionStatusPaid,
		IsTrial:   false,
		TrialDays: 0,
		StartDate: now,
		EndDate:   lifecycle.ComputeEndDate(*paidPlan, now, true),
	}

	latest, err := s.repo.FindLatestSubscription(ctx, id)
	switch {
	case err == nil:
		sub.ID = latest.ID
		if _, err := s.repo.UpdateSubscription(ctx, sub, latest.ID); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrSubscriptionSync, err)
		}
		s.log.Info("company activated, subscription updated",
			slog.String("id", id.String()), slog.String("plan", paidPlan.Name))
		return &StatusResult{Updated: true, Company: company, Subscription: &sub}, nil
	case errors.Is(err, repository.ErrNotFound):
		subID, err := s.repo.CreateSubscription(ctx, sub)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrSubscriptionSync, err)
		}
		sub.ID = subID
		s.log.Info("company activated, subscription created",
			slog.String("id", id.String()), slog.String("plan", paidPlan.Name))
		return &StatusResult{Updated: true, Company: company, Subscription: &sub, SubscriptionCreated: true}, nil
	default:
		return nil, fmt.Errorf("%s: %w: %v", op, ErrSubscriptionSync, err)
	}
}

// findPaidPlan выбирает первый активный платный план с фиксированным сроком.
// Список планов приходит в стабильном порядке создания, поэтому выбор
// воспроизводим.
func findPaidPlan(plans []*models.Plan) *models.Plan {
	for _, plan := range plans {
		if !plan.IsTrial && plan.IsActive && !plan.IsLifetime {
			return plan
		}
	}
	return nil
}

// PaymentResult описывает исход переключения статуса оплаты.
type PaymentResult struct {
	Company *models.Company `json:"company"`
	// SubscriptionSynced true, если статус был продублирован в подписку.
	SubscriptionSynced bool `json:"subscription_synced"`
}

// SetPaymentStatus переключает компанию между paid и trial и синхронизирует
// статус последней подписки компании, если она есть. Для неактивной компании
// операция запрещена.
func (s *CompanyService) SetPaymentStatus(ctx context.Context, id uuid.UUID, paid bool) (*PaymentResult, error) {
	const op = "services.company.SetPaymentStatus"

	company, err := s.repo.ReadCompany(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if company.Status == models.CompanyStatusInactive {
		return nil, fmt.Errorf("%s: %w", op, ErrCompanyInactive)
	}

	status := models.PaymentStatusTrial
	if paid {
		status = models.PaymentStatusPaid
	}
	if _, err := s.repo.UpdateCompanyPaymentStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	company.PaymentStatus = status
	s.invalidateCompany(id)

	latest, err := s.repo.FindLatestSubscription(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		// Подписки нет - синхронизировать нечего, это не ошибка.
		return &PaymentResult{Company: company}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrSubscriptionSync, err)
	}
	if _, err := s.repo.UpdateSubscriptionPayment(ctx, latest.ID, status, !paid); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrSubscriptionSync, err)
	}

	s.log.Info("payment status updated",
		slog.String("id", id.String()), slog.String("status", status))
	return &PaymentResult{Company: company, SubscriptionSynced: true}, nil
}

// Create создает новую компанию и возвращает её ID.
// Новая компания по умолчанию неактивна и неоплачена.
func (s *CompanyService) Create(ctx context.Context, req models.DummyCompany) (uuid.UUID, error) {
	const op = "services.company.Create"

	status := req.Status
	if status == "" {
		status = models.CompanyStatusInactive
	}
	company := models.Company{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Category:      req.Category,
		Address:       req.Address,
		Description:   req.Description,
		PlaceID:       req.PlaceID,
		Status:        status,
		PaymentStatus: models.PaymentStatusTrial,
	}

	id, err := s.repo.CreateCompany(ctx, company)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new company", slog.String("id", id.String()))
	return id, nil
}

// Read возвращает компанию по ID, используя кеш или репозиторий.
func (s *CompanyService) Read(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var result *models.Company
	cacheKey := companyCacheKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache company", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает список компаний с пагинацией.
func (s *CompanyService) List(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	return s.repo.ListCompanies(ctx, limit, offset)
}

// Update обновляет данные компании. Статусы этим путём не меняются -
// для них есть SetStatus и SetPaymentStatus.
func (s *CompanyService) Update(ctx context.Context, req models.DummyCompany, id uuid.UUID) (int, error) {
	const op = "services.company.Update"

	current, err := s.repo.ReadCompany(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	current.Name = req.Name
	current.Email = req.Email
	current.Phone = req.Phone
	current.Category = req.Category
	current.Address = req.Address
	current.Description = req.Description
	current.PlaceID = req.PlaceID

	res, err := s.repo.UpdateCompany(ctx, *current, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateCompany(id)
	s.log.Info("updated company", slog.String("id", id.String()))
	return res, nil
}

// Remove удаляет компанию по ID и инвалидирует кеш.
func (s *CompanyService) Remove(ctx context.Context, id uuid.UUID) (int, error) {
	s.invalidateCompany(id)
	count, err := s.repo.RemoveCompany(ctx, id)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// BulkRemove удаляет несколько компаний параллельно. Ошибки собираются в
// совокупный отчёт: частичный сбой не откатывает остальные удаления.
func (s *CompanyService) BulkRemove(ctx context.Context, ids []uuid.UUID) (int, error) {
	const op = "services.company.BulkRemove"

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			if _, err := s.repo.RemoveCompany(ctx, id); err != nil {
				s.log.Error("failed to remove company",
					slog.String("id", id.String()), sl.Err(err))
				return err
			}
			s.invalidateCompany(id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("%s: failed to delete some companies: %w", op, err)
	}
	return len(ids), nil
}

func (s *CompanyService) invalidateCompany(id uuid.UUID) {
	cacheKey := companyCacheKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func companyCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("company:%s", id)
}
