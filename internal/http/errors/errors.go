// Package errors holds the HTTP error helpers: log the real failure with the
// request id, hand the client a sanitized body.
package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	zap.L().Error(message,
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func BadRequestError(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	zap.L().Warn("bad request",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))

	http.Error(w, clientMessage, http.StatusBadRequest)
}

func LogError(r *http.Request, message string, err error) {
	zap.L().Error(message,
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
}
