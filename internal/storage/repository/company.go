package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// CreateCompany вставляет новую компанию и возвращает её ID.
func (s *Storage) CreateCompany(ctx context.Context, company models.Company) (uuid.UUID, error) {
	const op = "storage.CreateCompany"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO companies (id, name, email, phone, category, address,
			      description, place_id, status, payment_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	id := uuid.New()
	err := s.DB.QueryRowContext(ctx, query,
		id, company.Name, company.Email, company.Phone, company.Category,
		company.Address, company.Description, company.PlaceID,
		company.Status, company.PaymentStatus).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadCompany возвращает компанию по ID.
func (s *Storage) ReadCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	const op = "storage.ReadCompany"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, phone, category, address, description,
			      place_id, status, payment_status, created_at
			  FROM companies WHERE id = $1`
	var company models.Company
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&company.ID, &company.Name, &company.Email, &company.Phone,
		&company.Category, &company.Address, &company.Description,
		&company.PlaceID, &company.Status, &company.PaymentStatus,
		&company.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &company, nil
}

// ListCompanies возвращает список компаний с пагинацией,
// отсортированный по дате создания.
func (s *Storage) ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	const op = "storage.ListCompanies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, phone, category, address, description,
			      place_id, status, payment_status, created_at
			  FROM companies
			  ORDER BY created_at, id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Company
	for rows.Next() {
		var item models.Company
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.Phone,
			&item.Category, &item.Address, &item.Description, &item.PlaceID,
			&item.Status, &item.PaymentStatus, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCompany обновляет данные компании по ID и возвращает количество
// обновлённых строк.
func (s *Storage) UpdateCompany(ctx context.Context, company models.Company, id uuid.UUID) (int, error) {
	const op = "storage.UpdateCompany"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE companies
		      SET name = $1, email = $2, phone = $3, category = $4,
			      address = $5, description = $6, place_id = $7, status = $8,
			      payment_status = $9
		      WHERE id = $10`
	res, err := s.DB.ExecContext(ctx, query,
		company.Name, company.Email, company.Phone, company.Category,
		company.Address, company.Description, company.PlaceID,
		company.Status, company.PaymentStatus, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateCompanyStatus обновляет статус и статус оплаты компании.
func (s *Storage) UpdateCompanyStatus(ctx context.Context, id uuid.UUID, status, paymentStatus string) (int, error) {
	const op = "storage.UpdateCompanyStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE companies
		      SET status = $1, payment_status = $2
		      WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, status, paymentStatus, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateCompanyPaymentStatus обновляет только статус оплаты компании.
func (s *Storage) UpdateCompanyPaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (int, error) {
	const op = "storage.UpdateCompanyPaymentStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE companies
		      SET payment_status = $1
		      WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, paymentStatus, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCompany удаляет компанию по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveCompany(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "storage.RemoveCompany"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM companies WHERE id = $1`
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
