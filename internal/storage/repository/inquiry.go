package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// CreateInquiry вставляет новое обращение и возвращает его ID.
func (s *Storage) CreateInquiry(ctx context.Context, inquiry models.Inquiry) (uuid.UUID, error) {
	const op = "storage.CreateInquiry"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO inquiries (id, name, email, phone, category,
			      priority, address, description, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	id := uuid.New()
	err := s.DB.QueryRowContext(ctx, query,
		id, inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Category,
		inquiry.Priority, inquiry.Address, inquiry.Description,
		inquiry.Status).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadInquiry возвращает обращение по ID.
func (s *Storage) ReadInquiry(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	const op = "storage.ReadInquiry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, phone, category, priority, address,
			      description, status, created_at
			  FROM inquiries WHERE id = $1`
	var inquiry models.Inquiry
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&inquiry.ID, &inquiry.Name, &inquiry.Email, &inquiry.Phone,
		&inquiry.Category, &inquiry.Priority, &inquiry.Address,
		&inquiry.Description, &inquiry.Status, &inquiry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &inquiry, nil
}

// ListInquiries возвращает список обращений с пагинацией.
func (s *Storage) ListInquiries(ctx context.Context, limit, offset int) ([]*models.Inquiry, error) {
	const op = "storage.ListInquiries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, phone, category, priority, address,
			      description, status, created_at
			  FROM inquiries
			  ORDER BY created_at DESC, id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Inquiry
	for rows.Next() {
		var item models.Inquiry
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.Phone,
			&item.Category, &item.Priority, &item.Address, &item.Description,
			&item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateInquiry обновляет обращение по ID и возвращает количество
// обновлённых строк.
func (s *Storage) UpdateInquiry(ctx context.Context, inquiry models.Inquiry, id uuid.UUID) (int, error) {
	const op = "storage.UpdateInquiry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE inquiries
		      SET name = $1, email = $2, phone = $3, category = $4,
			      priority = $5, address = $6, description = $7, status = $8
		      WHERE id = $9`
	res, err := s.DB.ExecContext(ctx, query,
		inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Category,
		inquiry.Priority, inquiry.Address, inquiry.Description,
		inquiry.Status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveInquiry удаляет обращение по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveInquiry(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "storage.RemoveInquiry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM inquiries WHERE id = $1`
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
