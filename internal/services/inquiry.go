// Package services содержит бизнес-логику для управления обращениями.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// InquiryRepository определяет методы для работы с обращениями в хранилище.
type InquiryRepository interface {
	CreateInquiry(ctx context.Context, inquiry models.Inquiry) (uuid.UUID, error)
	ReadInquiry(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	ListInquiries(ctx context.Context, limit, offset int) ([]*models.Inquiry, error)
	UpdateInquiry(ctx context.Context, inquiry models.Inquiry, id uuid.UUID) (int, error)
	RemoveInquiry(ctx context.Context, id uuid.UUID) (int, error)
}

// InquiryService реализует бизнес-логику работы с обращениями.
type InquiryService struct {
	repo InquiryRepository
	log  *slog.Logger
}

// NewInquiryService создает новый экземпляр InquiryService.
func NewInquiryService(repo InquiryRepository, log *slog.Logger) *InquiryService {
	return &InquiryService{
		repo: repo,
		log:  log,
	}
}

// Create создает новое обращение и возвращает его ID.
func (s *InquiryService) Create(ctx context.Context, req models.DummyInquiry) (uuid.UUID, error) {
	const op = "services.inquiry.Create"

	inquiry := inquiryFromRequest(req)
	id, err := s.repo.CreateInquiry(ctx, inquiry)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new inquiry", slog.String("id", id.String()))
	return id, nil
}

// Read возвращает обращение по ID.
func (s *InquiryService) Read(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	return s.repo.ReadInquiry(ctx, id)
}

// List возвращает список обращений с пагинацией.
func (s *InquiryService) List(ctx context.Context, limit, offset int) ([]*models.Inquiry, error) {
	return s.repo.ListInquiries(ctx, limit, offset)
}

// Update обновляет обращение по ID.
func (s *InquiryService) Update(ctx context.Context, req models.DummyInquiry, id uuid.UUID) (int, error) {
	const op = "services.inquiry.Update"

	res, err := s.repo.UpdateInquiry(ctx, inquiryFromRequest(req), id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Remove удаляет обращение по ID.
func (s *InquiryService) Remove(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "services.inquiry.Remove"

	res, err := s.repo.RemoveInquiry(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func inquiryFromRequest(req models.DummyInquiry) models.Inquiry {
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	status := req.Status
	if status == "" {
		status = models.InquiryStatusPending
	}
	return models.Inquiry{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Category:    req.Category,
		Priority:    priority,
		Address:     req.Address,
		Description: req.Description,
		Status:      status,
	}
}
