package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// CreateReview вставляет новый отзыв и возвращает его ID.
func (s *Storage) CreateReview(ctx context.Context, review models.Review) (uuid.UUID, error) {
	const op = "storage.CreateReview"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reviews (id, company_id, author, rating, text)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	id := uuid.New()
	err := s.DB.QueryRowContext(ctx, query,
		id, review.CompanyID, review.Author, review.Rating, review.Text).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListReviewsByCompany возвращает отзывы компании, свежие первыми.
func (s *Storage) ListReviewsByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Review, error) {
	const op = "storage.ListReviewsByCompany"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, company_id, author, rating, text, created_at
			  FROM reviews
			  WHERE company_id = $1
			  ORDER BY created_at DESC, id`
	rows, err := s.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Review
	for rows.Next() {
		var item models.Review
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.Author,
			&item.Rating, &item.Text, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveReview удаляет отзыв по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveReview(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "storage.RemoveReview"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM reviews WHERE id = $1`
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
