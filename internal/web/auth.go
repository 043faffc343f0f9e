package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
	"github.com/erazemk/najdeno/internal/store"
)

type accountForm struct {
	FullName string
	Email    string
	Phone    string
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	if GetWebClaims(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/lost", http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.renderSignup(w, r, http.StatusOK, accountForm{}, s.popFlash(w, r))
}

func (s *Server) renderSignup(w http.ResponseWriter, r *http.Request, status int, form accountForm, flash *Flash) {
	s.Templates.RenderStatus(w, status, "signup.html", &struct {
		PageData
		Form accountForm
	}{s.page(r, "Sign up", flash), form})
}

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	in := service.SignupInput{
		FullName: r.FormValue("full_name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Phone:    r.FormValue("phone"),
	}

	user, err := s.Service.Signup(r.Context(), in)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			slog.Error("signup failed", "error", err)
		}
		form := accountForm{FullName: in.FullName, Email: in.Email, Phone: in.Phone}
		flash := &Flash{Kind: "error", Message: messageFor(err, "An account with that email already exists.")}
		s.renderSignup(w, r, statusFor(err), form, flash)
		return
	}

	if !s.startSession(w, user) {
		s.redirect(w, r, "/login", "success", "Account created. Please log in.")
		return
	}
	s.redirect(w, r, "/dashboard", "success", "Welcome, "+user.FullName+"!")
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, http.StatusOK, "", s.popFlash(w, r))
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, email string, flash *Flash) {
	s.Templates.RenderStatus(w, status, "login.html", &struct {
		PageData
		Email string
	}{s.page(r, "Log in", flash), email})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.renderLogin(w, r, http.StatusBadRequest, email, &Flash{Kind: "error", Message: "Enter your email and password."})
		return
	}

	user, err := s.Service.Login(r.Context(), email, password)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			slog.Error("login failed", "error", err)
		}
		s.renderLogin(w, r, statusFor(err), email, &Flash{Kind: "error", Message: messageFor(err, "")})
		return
	}

	if !s.startSession(w, user) {
		s.renderLogin(w, r, http.StatusInternalServerError, email, &Flash{Kind: "error", Message: "Login failed. Please try again."})
		return
	}
	slog.Info("user logged in", "user", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) startSession(w http.ResponseWriter, user *model.User) bool {
	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Email, user.FullName)
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		return false
	}
	s.setSessionCookie(w, token)
	return true
}

// Logout handles GET /logout and revokes the session's JTI.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := GetWebClaims(r.Context()); claims != nil {
		if err := store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
			slog.Error("failed to revoke token", "error", err)
		}
		slog.Info("user logged out", "user", claims.UserID)
	}
	s.clearSessionCookie(w)
	s.redirect(w, r, "/login", "success", "You have been logged out.")
}
