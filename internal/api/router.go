package api

import (
	"net/http"

	"github.com/erazemk/najdeno/internal/service"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *service.Service, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Service: svc, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{Service: svc}
	reportsHandler := &ReportsHandler{Service: svc}
	foundHandler := &FoundHandler{Service: svc}

	authMW := AuthMiddleware(jwtSecret, svc.DB)

	// Public.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/lost", itemsHandler.LostBoard)
	mux.HandleFunc("POST /api/lost/{id}/sightings", reportsHandler.Sighting)
	mux.HandleFunc("GET /api/found/{token}", itemsHandler.Resolve)
	mux.HandleFunc("POST /api/found/{token}/reports", reportsHandler.FinderReport)
	mux.HandleFunc("GET /api/found-items", foundHandler.List)
	mux.HandleFunc("POST /api/found-items", foundHandler.Create)

	// Account.
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Owner's items and reports.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("POST /api/items/{id}/status", authMW(http.HandlerFunc(itemsHandler.SetStatus)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("GET /api/qr/{token}", authMW(http.HandlerFunc(itemsHandler.QR)))
	mux.Handle("GET /api/items/{id}/reports", authMW(http.HandlerFunc(reportsHandler.ItemReports)))
	mux.Handle("GET /api/reports", authMW(http.HandlerFunc(reportsHandler.List)))
	mux.Handle("GET /api/reports/{id}/notes", authMW(http.HandlerFunc(reportsHandler.Notes)))
	mux.Handle("POST /api/reports/{id}/notes", authMW(http.HandlerFunc(reportsHandler.AddNote)))
	mux.Handle("POST /api/reports/{id}/resolve", authMW(http.HandlerFunc(reportsHandler.Resolve)))
	mux.Handle("POST /api/found-items/{id}/claim", authMW(http.HandlerFunc(foundHandler.Claim)))

	return mux
}
