package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// CreateSubscription вставляет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (uuid.UUID, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, company_id, plan_id, status,
			      is_trial, trial_days, start_date, end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	id := uuid.New()
	err := s.DB.QueryRowContext(ctx, query,
		id, sub.CompanyID, sub.PlanID, sub.Status, sub.IsTrial,
		sub.TrialDays, sub.StartDate, sub.EndDate).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadSubscription возвращает подписку по ID.
func (s *Storage) ReadSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, company_id, plan_id, status, is_trial, trial_days,
			      start_date, end_date, created_at
			  FROM subscriptions WHERE id = $1`
	var sub models.Subscription
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.CompanyID, &sub.PlanID, &sub.Status, &sub.IsTrial,
		&sub.TrialDays, &sub.StartDate, &sub.EndDate, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// FindLatestSubscription возвращает самую свежую подписку компании.
// Сортировка по start_date, при равенстве дат побеждает больший id -
// выбор должен быть воспроизводимым. Если подписок нет, возвращается
// ErrNotFound.
func (s *Storage) FindLatestSubscription(ctx context.Context, companyID uuid.UUID) (*models.Subscription, error) {
	const op = "storage.FindLatestSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, company_id, plan_id, status, is_trial, trial_days,
			      start_date, end_date, created_at
			  FROM subscriptions
			  WHERE company_id = $1
			  ORDER BY start_date DESC, id DESC
			  LIMIT 1`
	var sub models.Subscription
	err := s.DB.QueryRowContext(ctx, query, companyID).Scan(
		&sub.ID, &sub.CompanyID, &sub.PlanID, &sub.Status, &sub.IsTrial,
		&sub.TrialDays, &sub.StartDate, &sub.EndDate, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ListSubscriptionInfos возвращает подписки с пагинацией, обогащённые
// данными компании и плана. Отображаемый статус здесь не вычисляется -
// это задача бизнес-логики.
func (s *Storage) ListSubscriptionInfos(ctx context.Context, limit, offset int) ([]*models.SubscriptionInfo, error) {
	const op = "storage.ListSubscriptionInfos"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT sub.id, sub.company_id, sub.plan_id, sub.status,
			      sub.is_trial, sub.trial_days, sub.start_date, sub.end_date,
			      sub.created_at,
			      c.name, c.status, c.payment_status,
			      p.name, p.price, p.trial_days, p.is_lifetime
			  FROM subscriptions sub
			  JOIN companies c ON c.id = sub.company_id
			  JOIN plans p ON p.id = sub.plan_id
			  ORDER BY sub.start_date DESC, sub.id DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionInfo
	for rows.Next() {
		var item models.SubscriptionInfo
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.PlanID,
			&item.Status, &item.IsTrial, &item.TrialDays, &item.StartDate,
			&item.EndDate, &item.CreatedAt,
			&item.CompanyName, &item.CompanyStatus, &item.CompanyPaymentStatus,
			&item.PlanName, &item.PlanPrice, &item.PlanTrialDays,
			&item.PlanIsLifetime); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscription обновляет подписку по ID и возвращает количество
// обновлённых строк.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, id uuid.UUID) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
		      SET plan_id = $1, status = $2, is_trial = $3, trial_days = $4,
			      start_date = $5, end_date = $6
		      WHERE id = $7`
	res, err := s.DB.ExecContext(ctx, query,
		sub.PlanID, sub.Status, sub.IsTrial, sub.TrialDays,
		sub.StartDate, sub.EndDate, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateSubscriptionPayment синхронизирует статус оплаты подписки.
// Даты при этом не трогаются.
func (s *Storage) UpdateSubscriptionPayment(ctx context.Context, id uuid.UUID, status string, isTrial bool) (int, error) {
	const op = "storage.UpdateSubscriptionPayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
		      SET status = $1, is_trial = $2
		      WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, status, isTrial, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество
// удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindExpiringSubscriptions возвращает подписки активных компаний,
// срок которых заканчивается в ближайшие withinDays дней.
func (s *Storage) FindExpiringSubscriptions(ctx context.Context, withinDays int) ([]*models.ExpiringSubscription, error) {
	const op = "storage.FindExpiringSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.name, c.email, p.name, sub.end_date,
			      GREATEST(0, (sub.end_date::date - CURRENT_DATE))
			  FROM subscriptions sub
			  JOIN companies c ON c.id = sub.company_id
			  JOIN plans p ON p.id = sub.plan_id
			  WHERE c.status = 'active'
			    AND sub.end_date::date >= CURRENT_DATE
			    AND sub.end_date::date < CURRENT_DATE + $1::int`
	rows, err := s.DB.QueryContext(ctx, query, withinDays)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ExpiringSubscription
	for rows.Next() {
		var item models.ExpiringSubscription
		if err := rows.Scan(&item.CompanyID, &item.CompanyName, &item.Email,
			&item.PlanName, &item.EndDate, &item.DaysLeft); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
