// Package bulkremove реализует HTTP-обработчик массового удаления компаний.
package bulkremove

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
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	BulkRemove(ctx context.Context, ids []uuid.UUID) (int, error)
}

// Request содержит список ID компаний на удаление.
type Request struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Удалить несколько компаний
// @Description Удаляет компании по списку ID. Возвращает число удаленных записей.
// @Tags Companies
// @Accept  json
// @Produce  json
// @Param request body Request true "Список ID компаний"
// @Success 200 {object} map[string]any "Успешное удаление"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /companies/bulk-delete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.bulkremove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Error("invalid id format", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid id: "+raw))
			return
		}
		ids = append(ids, id)
	}

	res, err := h.service.BulkRemove(r.Context(), ids)
	if err != nil {
		log.Error("failed to delete companies", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete companies"))
		return
	}

	log.Info("success to delete companies", slog.Int("deleted", res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_count": res,
	}))
}
