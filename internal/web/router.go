package web

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/erazemk/najdeno/internal/service"
	webembed "github.com/erazemk/najdeno/web"
)

// DefaultMaxUploadBytes caps multipart bodies when Server.MaxUploadBytes is
// zero.
const DefaultMaxUploadBytes = 10 << 20

// Server holds all dependencies for page handlers.
type Server struct {
	Service        *service.Service
	DB             *sql.DB
	Templates      *Templates
	JWTSecret      string
	SecureCookies  bool
	MaxUploadBytes int64
}

// NewServer loads the templates and returns a Server for svc.
func NewServer(svc *service.Service, jwtSecret string) (*Server, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		Service:        svc,
		DB:             svc.DB,
		Templates:      templates,
		JWTSecret:      jwtSecret,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}, nil
}

// Router returns the page router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.NotFound(s.notFound)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(s.SessionMiddleware)

		r.Get("/", s.Home)
		r.Get("/media/*", s.Media)

		r.Get("/signup", s.SignupPage)
		r.Post("/signup", s.SignupSubmit)
		r.Get("/login", s.LoginPage)
		r.Post("/login", s.LoginSubmit)
		r.Get("/logout", s.Logout)

		r.Get("/lost", s.LostPage)
		r.Post("/lost/{id}/sighting", s.SightingSubmit)
		r.Get("/found/{token}", s.FoundPage)
		r.Post("/found/{token}", s.FoundSubmit)
		r.Get("/found-items", s.FoundItemsPage)
		r.Post("/found-items", s.FoundItemSubmit)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)

			r.Get("/dashboard", s.Dashboard)
			r.Post("/dashboard", s.ItemCreateSubmit)
			r.Post("/item/{id}/status", s.ItemStatusSubmit)
			r.Post("/item/{id}/delete", s.ItemDeleteSubmit)
			r.Get("/download/{token}", s.QRDownload)
			r.Post("/report/{id}/resolve", s.ReportResolveSubmit)
			r.Post("/found-items/{id}/claim", s.FoundItemClaimSubmit)
			r.Get("/account", s.AccountPage)
			r.Post("/account", s.AccountSubmit)
			r.Post("/account/password", s.PasswordSubmit)
		})
	})

	return r
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(svc *service.Service, jwtSecret string) (http.Handler, error) {
	s, err := NewServer(svc, jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.Router(), nil
}
