// Package setstatus реализует HTTP-обработчик переключения статуса компании.
//
// Активация компании дополнительно назначает ей платный план: последняя
// подписка обновляется или создается новая. Если подходящего платного плана
// нет, операция завершается успешно с предупреждением в ответе. Если
// компания обновилась, а запись подписки не удалась, возвращается ошибка
// частичного применения.
package setstatus

import (
	"context"
	"encoding/json"
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

// Service описывает интерфейс бизнес-логики переключения статуса.
type Service interface {
	SetStatus(ctx context.Context, id uuid.UUID, activate bool) (*services.StatusResult, error)
}

// Request содержит целевой статус активности компании.
type Request struct {
	Active bool `json:"active"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить статус компании
// @Description Активирует или деактивирует компанию. При активации компании назначается платный план.
// @Tags Companies
// @Accept  json
// @Produce  json
// @Param id path string true "ID компании"
// @Param request body Request true "Целевой статус"
// @Success 200 {object} map[string]any "Статус переключен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера или частичное применение"
// @Router /companies/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.setstatus"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	res, err := h.service.SetStatus(r.Context(), id, req.Active)
	if errors.Is(err, repository.ErrNotFound) {
		log.Error("company not found", slog.String("id", id.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("company not found"))
		return
	}
	if errors.Is(err, services.ErrSubscriptionSync) {
		log.Error("company updated but subscription sync failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("company updated but subscription sync failed"))
		return
	}
	if err != nil {
		log.Error("failed to set company status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to set company status"))
		return
	}

	log.Info("company status switched",
		slog.String("id", id.String()), slog.Bool("active", req.Active),
		slog.Bool("updated", res.Updated))

	if res.NoPaidPlan {
		render.JSON(w, r, response.StatusOKWithWarning(res, "no paid plan available, subscription not assigned"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(res))
}
