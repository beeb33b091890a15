// Package read реализует HTTP-обработчик чтения одной компании по ID.
package read

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
	"github.com/magabrotheeeer/review-dashboard/internal/models"
	"github.com/magabrotheeeer/review-dashboard/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения компании.
type Service interface {
	Read(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить компанию
// @Description Возвращает компанию по её ID.
// @Tags Companies
// @Produce  json
// @Param id path string true "ID компании"
// @Success 200 {object} map[string]any "Данные компании"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /companies/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.read"

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

	company, err := h.service.Read(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Error("company not found", slog.String("id", id.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("company not found"))
		return
	}
	if err != nil {
		log.Error("failed to read company", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read company"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"company": company,
	}))
}
