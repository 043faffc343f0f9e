package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/service"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
}

// statusFor maps a service error to an HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// messageFor returns text safe to show a user. conflict replaces the generic
// conflict message where the handler knows what the conflict means.
func messageFor(err error, conflict string) string {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return "Please check the form: " + ve.Error() + "."
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, service.ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, service.ErrNotFound):
		return "That no longer exists."
	case errors.Is(err, service.ErrConflict):
		if conflict != "" {
			return conflict
		}
		return "That was already done."
	default:
		return "Something went wrong. Please try again."
	}
}

// fail logs unexpected errors and redirects back with a flash.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, to string, err error, conflict string) {
	if statusFor(err) == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.redirect(w, r, to, "error", messageFor(err, conflict))
}

// failPage renders the not-found or error page for a failed GET.
func (s *Server) failPage(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusNotFound {
		s.notFound(w, r)
		return
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	s.Templates.RenderStatus(w, status, "error.html", &struct {
		PageData
		Message string
	}{s.page(r, http.StatusText(status), nil), messageFor(err, "")})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.Templates.RenderStatus(w, http.StatusNotFound, "notfound.html", &struct{ PageData }{s.page(r, "Not found", nil)})
}
