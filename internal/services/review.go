// Package services содержит бизнес-логику для управления отзывами и
// публичной страницей отзывов компании.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// ErrCompanyNotActive возвращается, когда публичная страница отзывов
// запрошена для неактивной компании.
var ErrCompanyNotActive = errors.New("company is not active")

// Шаблон ссылки на форму отзыва Google; подставляется Place ID компании.
const googleReviewURLTemplate = "https://search.google.com/local/writereview?placeid=%s&source=g.page.m.nr._&laa=nmx-review-solicitation-recommendation-card"

// fallbackReviewURL используется, когда у компании не задан Place ID.
const fallbackReviewURL = "https://www.google.com"

// ReviewRepository определяет методы для работы с отзывами в хранилище.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review models.Review) (uuid.UUID, error)
	ListReviewsByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Review, error)
	RemoveReview(ctx context.Context, id uuid.UUID) (int, error)
	ReadCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

// ReviewService реализует бизнес-логику работы с отзывами.
type ReviewService struct {
	repo ReviewRepository
	log  *slog.Logger
}

// NewReviewService создает новый экземпляр ReviewService.
func NewReviewService(repo ReviewRepository, log *slog.Logger) *ReviewService {
	return &ReviewService{
		repo: repo,
		log:  log,
	}
}

// Create создает новый отзыв и возвращает его ID.
func (s *ReviewService) Create(ctx context.Context, req models.DummyReview) (uuid.UUID, error) {
	const op = "services.review.Create"

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: invalid company id: %w", op, err)
	}
	review := models.Review{
		CompanyID: companyID,
		Author:    req.Author,
		Rating:    req.Rating,
		Text:      req.Text,
	}

	id, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new review", slog.String("id", id.String()))
	return id, nil
}

// List возвращает отзывы компании.
func (s *ReviewService) List(ctx context.Context, companyID uuid.UUID) ([]*models.Review, error) {
	return s.repo.ListReviewsByCompany(ctx, companyID)
}

// Remove удаляет отзыв по ID.
func (s *ReviewService) Remove(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "services.review.Remove"

	res, err := s.repo.RemoveReview(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// PublicPage - данные публичной страницы отзывов: посетитель копирует
// заготовленный текст и переходит по ссылке в форму отзыва Google.
type PublicPage struct {
	CompanyName     string           `json:"company_name"`
	GoogleReviewURL string           `json:"google_review_url"`
	Reviews         []*models.Review `json:"reviews"`
}

// PublicReviews собирает публичную страницу отзывов компании.
// Страница доступна только для активных компаний.
func (s *ReviewService) PublicReviews(ctx context.Context, companyID uuid.UUID) (*PublicPage, error) {
	const op = "services.review.PublicReviews"

	company, err := s.repo.ReadCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !company.IsActive() {
		return nil, fmt.Errorf("%s: %w", op, ErrCompanyNotActive)
	}

	reviews, err := s.repo.ListReviewsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &PublicPage{
		CompanyName:     company.Name,
		GoogleReviewURL: GoogleReviewURL(company.PlaceID),
		Reviews:         reviews,
	}, nil
}

// GoogleReviewURL возвращает ссылку на форму отзыва Google для Place ID.
func GoogleReviewURL(placeID string) string {
	if placeID == "" {
		return fallbackReviewURL
	}
	return fmt.Sprintf(googleReviewURLTemplate, placeID)
}
