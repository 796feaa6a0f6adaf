// Package apperr описывает типизированные ошибки бизнес-слоя.
// Каждая ошибка несёт свой вид, по которому HTTP-слой подбирает статус ответа.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind вид ошибки.
type Kind int

const (
	KindInternal Kind = iota
	KindRouteNotFound
	KindNotFound
	KindValidation
	KindUnauthorized
	KindForbidden
)

// Status HTTP-статус для вида ошибки.
func (k Kind) Status() int {
	switch k {
	case KindRouteNotFound, KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error ошибка с видом и сообщением, которое можно показать клиенту.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RouteNotFound маршрут не зарегистрирован.
func RouteNotFound(method, path string) *Error {
	return &Error{Kind: KindRouteNotFound, Msg: fmt.Sprintf("route not found: %s %s", method, path)}
}

// NotFound запись с указанным id отсутствует.
func NotFound(id string) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("id %s not found", id)}
}

// Validation нарушена схема или бизнес-правило.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Unauthorized нет токена, токен невалиден или неверные учётные данные.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

// Forbidden вызывающий аутентифицирован, но действие ему запрещено.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// Internal оборачивает неожиданную ошибку.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: "internal server error", Err: err}
}

// KindOf возвращает вид ошибки; всё, что не *Error, считается внутренней ошибкой.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is проверяет, что err имеет вид kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
