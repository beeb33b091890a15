// Package create реализует HTTP-обработчик для создания новых компаний.
//
// Handler принимает JSON-запрос с данными компании, валидирует их,
// вызывает бизнес-логику создания компании через сервис и возвращает ID
// созданной записи в JSON-формате.
//
// Новая компания всегда создается неактивной и без оплаты: статусы
// переключаются отдельными операциями.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/review-dashboard/internal/http/response"
	"github.com/magabrotheeeer/review-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

// Handler управляет HTTP-запросами на создание новых компаний.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания компании.
type Service interface {
	Create(ctx context.Context, req models.DummyCompany) (uuid.UUID, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новую компанию
// @Description Создает новую компанию. Возвращает ID созданной записи.
// @Tags Companies
// @Accept  json
// @Produce  json
// @Param request body models.DummyCompany true "Данные новой компании"
// @Success 200 {object} map[string]any "Успешное создание компании"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании компании"
// @Router /companies [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCompany
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create company", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create company"))
		return
	}

	log.Info("success to create company", slog.String("id", id.String()))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
