// Package apierror defines the gateway's error taxonomy and its
// mapping onto HTTP status codes. Every non-2xx response body is built
// from one of these errors.
package apierror

import (
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation      Kind = "validation_error"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindUnknownBroker   Kind = "unknown_broker"
	KindNotFound        Kind = "not_found"
	KindUpstream        Kind = "upstream_error"
	KindRejected        Kind = "broker_rejection"
	KindInternal        Kind = "internal_error"
)

var kindStatus = map[Kind]int{
	KindValidation:      http.StatusUnprocessableEntity,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindUnknownBroker:   http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindUpstream:        http.StatusInternalServerError,
	KindRejected:        http.StatusBadRequest,
	KindInternal:        http.StatusInternalServerError,
}

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Detail)
}

func New(kind Kind, message, detail string) *Error {
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	return &Error{
		Kind:    kind,
		Status:  status,
		Message: message,
		Detail:  detail,
	}
}

func Validation(field, rule string) *Error {
	return New(KindValidation, "Validation Error", fmt.Sprintf("%s: %s", field, rule))
}

func Unauthenticated(detail string) *Error {
	return New(KindUnauthenticated, "Authentication required", detail)
}

func Forbidden(detail string) *Error {
	return New(KindForbidden, "Not allowed for this broker/user", detail)
}

func UnknownBroker(name string) *Error {
	return New(KindUnknownBroker, "Unknown broker", fmt.Sprintf("broker %q is not recognized", name))
}

func NotFound(detail string) *Error {
	return New(KindNotFound, "Not found", detail)
}

func Upstream(detail string) *Error {
	return New(KindUpstream, "Broker unavailable", detail)
}

func Rejected(detail string) *Error {
	return New(KindRejected, "Order rejected by broker", detail)
}

func Internal(errorID string) *Error {
	return New(KindInternal, "Internal server error", fmt.Sprintf("error_id: %s", errorID))
}
