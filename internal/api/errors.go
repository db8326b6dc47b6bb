package api

import (
	"fmt"
	"log/slog"
	"net/http"
)

func logError(r *http.Request, err error) {
	slog.Error("Request failed",
		"request_id", RequestIDFromContext(r.Context()),
		"method", r.Method,
		"url", r.URL.String(),
		"error", err,
	)
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	if err := encodeJSON(w, status, envelope{"error": message}, nil); err != nil {
		logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handler) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logError(r, err)
	message := "the server encountered a problem and could not process your request"
	h.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (h *Handler) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	h.errorResponse(w, r, http.StatusNotFound, message)
}

func (h *Handler) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	h.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (h *Handler) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (h *Handler) failedValidationResponse(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	h.errorResponse(w, r, http.StatusUnprocessableEntity, fields)
}
