package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/http/response"
	"github.com/magabrotheeeer/review-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	List(ctx context.Context, companyID uuid.UUID) ([]*models.Review, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список отзывов компании
// @Description Возвращает отзывы компании по её ID.
// @Tags Reviews
// @Produce  json
// @Param company_id query string true "ID компании"
// @Success 200 {object} map[string]any "Список отзывов"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID компании"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reviews [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	companyID, err := uuid.Parse(r.URL.Query().Get("company_id"))
	if err != nil {
		log.Error("invalid company id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid company_id"))
		return
	}

	res, err := h.service.List(r.Context(), companyID)
	if err != nil {
		log.Error("failed to list reviews", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list reviews"))
		return
	}

	log.Info("list reviews", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"reviews":    res,
	}))
}
