// Package setpayment реализует HTTP-обработчик переключения статуса оплаты
// компании. Статус оплаты дублируется в последнюю подписку компании, если
// она существует. Для неактивной компании операция запрещена.
package setpayment

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

// Service описывает интерфейс бизнес-логики переключения оплаты.
type Service interface {
	SetPaymentStatus(ctx context.Context, id uuid.UUID, paid bool) (*services.PaymentResult, error)
}

// Request содержит целевой статус оплаты компании.
type Request struct {
	Paid bool `json:"paid"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить статус оплаты компании
// @Description Помечает компанию оплаченной или неоплаченной и синхронизирует её последнюю подписку.
// @Tags Companies
// @Accept  json
// @Produce  json
// @Param id path string true "ID компании"
// @Param request body Request true "Целевой статус оплаты"
// @Success 200 {object} map[string]any "Статус оплаты переключен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Failure 409 {object} response.ErrorResponse "Компания неактивна"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера или частичное применение"
// @Router /companies/{id}/payment-status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.setpayment"

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

	res, err := h.service.SetPaymentStatus(r.Context(), id, req.Paid)
	if errors.Is(err, repository.ErrNotFound) {
		log.Error("company not found", slog.String("id", id.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("company not found"))
		return
	}
	if errors.Is(err, services.ErrCompanyInactive) {
		log.Error("payment status change rejected", slog.String("id", id.String()))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("company is inactive"))
		return
	}
	if errors.Is(err, services.ErrSubscriptionSync) {
		log.Error("company updated but subscription sync failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("company updated but subscription sync failed"))
		return
	}
	if err != nil {
		log.Error("failed to set payment status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to set payment status"))
		return
	}

	log.Info("payment status switched",
		slog.String("id", id.String()), slog.Bool("paid", req.Paid),
		slog.Bool("subscription_synced", res.SubscriptionSynced))
	render.JSON(w, r, response.StatusOKWithData(res))
}
