// handlers — REST-обработчики social-service поверх сервисного слоя.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/go-social-platform/internal/errors"
	"github.com/pribylovaa/go-social-platform/internal/http/middleware"
	"github.com/pribylovaa/go-social-platform/internal/models"
	"github.com/pribylovaa/go-social-platform/internal/service"
)

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc      *service.Service
	validate *validator.Validate
}

func New(svc *service.Service) *Handlers {
	return &Handlers{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// bind декодирует тело и проверяет его по тегам validate.
func (h *Handlers) bind(r *http.Request, value any) error {
	if err := decodeStrict(r, value); err != nil {
		return invalidArgument("malformed body")
	}

	if err := h.validate.Struct(value); err != nil {
		return invalidArgument(err.Error())
	}

	return nil
}

func invalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidArgument, msg)
}

func viewer(r *http.Request) string {
	return middleware.Viewer(r.Context())
}

// pathParam возвращает непустой параметр маршрута.
func pathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if v == "" {
		return "", invalidArgument(name + " is required")
	}

	return v, nil
}

func kindParam(r *http.Request) (models.ContentKind, error) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		return "", invalidArgument("unknown content kind")
	}

	return kind, nil
}

// idempotencyKey читает необязательный Idempotency-Key (UUID).
func idempotencyKey(r *http.Request) (string, error) {
	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		return "", nil
	}

	id, err := uuid.Parse(key)
	if err != nil {
		return "", invalidArgument("Idempotency-Key must be a UUID")
	}

	return id.String(), nil
}

func intQuery(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, invalidArgument(name + " must be a non-negative integer")
	}

	return n, nil
}

// feedQuery разбирает ?sort=&t=&page=&limit=.
func feedQuery(r *http.Request) (service.FeedQuery, error) {
	page, err := intQuery(r, "page")
	if err != nil {
		return service.FeedQuery{}, err
	}

	limit, err := intQuery(r, "limit")
	if err != nil {
		return service.FeedQuery{}, err
	}

	return service.FeedQuery{
		Sort:   r.URL.Query().Get("sort"),
		Window: r.URL.Query().Get("t"),
		Page:   page,
		Limit:  limit,
	}, nil
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	apierrors.WriteError(w, r, err)
}
