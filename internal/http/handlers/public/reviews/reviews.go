// Package reviews реализует публичный HTTP-обработчик страницы отзывов.
//
// Страница доступна без авторизации: посетитель видит отзывы компании и
// ссылку на форму отзыва Google. Для неактивной компании страница
// недоступна.
package reviews

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/http/response"
	"github.com/magabrotheeeer/review-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/review-dashboard/internal/services"
	"github.com/magabrotheeeer/review-dashboard/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сборки публичной страницы отзывов.
type Service interface {
	PublicReviews(ctx context.Context, companyID uuid.UUID) (*services.PublicPage, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Публичная страница отзывов компании
// @Description Возвращает отзывы активной компании и ссылку на форму отзыва Google.
// @Tags Public
// @Produce  json
// @Param id path string true "ID компании"
// @Success 200 {object} map[string]any "Публичная страница отзывов"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена или неактивна"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /public/companies/{id}/reviews [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.public.reviews"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	page, err := h.service.PublicReviews(r.Context(), id)
	// Неактивная компания для посетителя неотличима от несуществующей.
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, services.ErrCompanyNotActive) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("company not found"))
		return
	}
	if err != nil {
		log.Error("failed to build public reviews page", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load reviews"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(page))
}
