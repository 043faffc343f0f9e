package web

import (
	"errors"
	"net/http"

	"github.com/erazemk/najdeno/internal/service"
)

// AccountPage handles GET /account.
func (s *Server) AccountPage(w http.ResponseWriter, r *http.Request) {
	user, err := s.Service.User(r.Context(), actor(r))
	if err != nil {
		s.failPage(w, r, err)
		return
	}

	s.Templates.Render(w, "account.html", &struct {
		PageData
		Form accountForm
	}{
		PageData: s.page(r, "Account", s.popFlash(w, r)),
		Form:     accountForm{FullName: user.FullName, Email: user.Email, Phone: user.Phone},
	})
}

// AccountSubmit handles POST /account.
func (s *Server) AccountSubmit(w http.ResponseWriter, r *http.Request) {
	user, err := s.Service.UpdateProfile(r.Context(), actor(r), r.FormValue("full_name"), r.FormValue("phone"))
	if err != nil {
		s.fail(w, r, "/account", err, "")
		return
	}

	// The session carries the display name, so reissue it.
	s.startSession(w, user)
	s.redirect(w, r, "/account", "success", "Profile updated.")
}

// PasswordSubmit handles POST /account/password.
func (s *Server) PasswordSubmit(w http.ResponseWriter, r *http.Request) {
	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	if next != r.FormValue("confirm_password") {
		s.redirect(w, r, "/account", "error", "The new passwords do not match.")
		return
	}

	err := s.Service.ChangePassword(r.Context(), actor(r), current, next)
	if err != nil {
		msg := messageFor(err, "")
		if errors.Is(err, service.ErrInvalidCredentials) {
			msg = "Your current password is incorrect."
		}
		s.redirect(w, r, "/account", "error", msg)
		return
	}
	s.redirect(w, r, "/account", "success", "Password changed.")
}
