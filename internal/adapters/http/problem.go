package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	api "ipwatch/internal/api"
	"ipwatch/internal/domain"
)

const problemBase = "https://ipwatch.dev/problems/"

// writeProblem writes an RFC 7807 problem document.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	p := api.Problem{
		Type:   fmt.Sprintf("%s%d", problemBase, status),
		Title:  http.StatusText(status),
		Status: status,
	}
	if detail != "" {
		p.Detail = &detail
	}
	if r != nil {
		instance := r.URL.Path
		p.Instance = &instance
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	var bad *badRequest
	switch {
	case errors.As(err, &bad), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// problemHandlers returns the request and response error handlers for the
// strict server. Internal errors are logged and never shown to the client.
func problemHandlers(logger *slog.Logger) api.StrictHTTPServerOptions {
	return api.StrictHTTPServerOptions{
		RequestErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeProblem(w, r, http.StatusBadRequest, err.Error())
		},
		ResponseErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				logger.Error("request failed", "path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()), "err", err)
				writeProblem(w, r, status, "An unexpected error occurred.")
				return
			}
			writeProblem(w, r, status, err.Error())
		},
	}
}

// paramError handles binding failures raised before the strict handler runs.
func paramError(w http.ResponseWriter, r *http.Request, err error) {
	writeProblem(w, r, http.StatusBadRequest, err.Error())
}

type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }
