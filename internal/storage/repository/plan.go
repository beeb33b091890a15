package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// CreatePlan вставляет новый тарифный план и возвращает его ID.
// Если план помечен как план по умолчанию, флаг снимается с остальных
// планов в той же транзакции.
func (s *Storage) CreatePlan(ctx context.Context, plan models.Plan) (uuid.UUID, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if plan.IsDefault {
		if _, err := tx.ExecContext(ctx, `UPDATE plans SET is_default = false WHERE is_default = true`); err != nil {
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	query := `INSERT INTO plans (id, name, price, is_trial, trial_days,
			      duration, duration_type, is_lifetime, is_active, is_default)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	id := uuid.New()
	err = tx.QueryRowContext(ctx, query,
		id, plan.Name, plan.Price, plan.IsTrial, plan.TrialDays,
		plan.Duration, plan.DurationType, plan.IsLifetime,
		plan.IsActive, plan.IsDefault).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadPlan возвращает тарифный план по ID.
func (s *Storage) ReadPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	const op = "storage.ReadPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, is_trial, trial_days, duration,
			      duration_type, is_lifetime, is_active, is_default, created_at
			  FROM plans WHERE id = $1`
	var plan models.Plan
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&plan.ID, &plan.Name, &plan.Price, &plan.IsTrial, &plan.TrialDays,
		&plan.Duration, &plan.DurationType, &plan.IsLifetime,
		&plan.IsActive, &plan.IsDefault, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &plan, nil
}

// ListPlans возвращает все тарифные планы в стабильном порядке создания.
// Порядок важен: при активации компании выбирается первый подходящий план
// именно из этого списка.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, is_trial, trial_days, duration,
			      duration_type, is_lifetime, is_active, is_default, created_at
			  FROM plans
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		var item models.Plan
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.IsTrial,
			&item.TrialDays, &item.Duration, &item.DurationType,
			&item.IsLifetime, &item.IsActive, &item.IsDefault,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePlan обновляет тарифный план по ID и возвращает количество
// обновлённых строк. Снятие флага is_default с других планов выполняется
// в той же транзакции.
func (s *Storage) UpdatePlan(ctx context.Context, plan models.Plan, id uuid.UUID) (int, error) {
	const op = "storage.UpdatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if plan.IsDefault {
		if _, err := tx.ExecContext(ctx, `UPDATE plans SET is_default = false WHERE is_default = true AND id <> $1`, id); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	query := `UPDATE plans
		      SET name = $1, price = $2, is_trial = $3, trial_days = $4,
			      duration = $5, duration_type = $6, is_lifetime = $7,
			      is_active = $8, is_default = $9
		      WHERE id = $10`
	res, err := tx.ExecContext(ctx, query,
		plan.Name, plan.Price, plan.IsTrial, plan.TrialDays,
		plan.Duration, plan.DurationType, plan.IsLifetime,
		plan.IsActive, plan.IsDefault, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CountSubscriptionsByPlan возвращает количество подписок, ссылающихся на план.
func (s *Storage) CountSubscriptionsByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	const op = "storage.CountSubscriptionsByPlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM subscriptions WHERE plan_id = $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, planID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// RemovePlan удаляет тарифный план по ID и возвращает количество удалённых строк.
func (s *Storage) RemovePlan(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "storage.RemovePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM plans WHERE id = $1`
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
