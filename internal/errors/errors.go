// errors переводит ошибки сервисного слоя в HTTP-ответы единого формата.
//
// Формат тела:
//
//	{"error":{"code":"not_found","message":"not found","request_id":"..."}}
//
// Сообщения стабильны и не раскрывают, какая именно проверка видимости сработала.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/go-social-platform/internal/service"
)

// StatusClientClosedRequest — нестандартный код nginx для отменённого клиентом запроса.
const StatusClientClosedRequest = 499

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP возвращает HTTP-статус и тело ответа для ошибки.
// nil трактуется как внутренняя ошибка.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: APIError{Code: "internal", Message: "internal error"}}
	}

	status, code, msg := classify(err)
	return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

// WriteError пишет ошибку в ответ; request id берётся из X-Request-Id.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := ToHTTP(err)
	if r != nil {
		body.Error.RequestID = r.Header.Get("X-Request-Id")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// classify — порядок важен: ErrAdultContent оборачивает ErrForbidden.
func classify(err error) (int, string, string) {
	switch {
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "authentication required"
	case stderrors.Is(err, service.ErrAdultContent):
		return http.StatusForbidden, "adult_content_blocked", "adult content is disabled in preferences"
	case stderrors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict", "conflict"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "request canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
