package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/CesarGorge/mini-wallet-api/internal/handlers"
	"github.com/CesarGorge/mini-wallet-api/internal/httputil"
	appmw "github.com/CesarGorge/mini-wallet-api/internal/middleware"
	"github.com/CesarGorge/mini-wallet-api/internal/token"
)

func NewRoutes(h *handlers.Handlers, tokens *token.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(appmw.Recover)
	r.Use(appmw.NormalizeBody)

	auth := appmw.Authenticated(tokens)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})

	r.Post("/login", h.Login)

	r.With(auth).Post("/transactions", h.CreateTransaction)
	r.With(auth).Get("/transactions", h.ListTransactions)
	r.With(auth).Get("/transactions/{txId}", h.GetTransaction)
	r.With(auth).Put("/transactions/{txId}", h.UpdateTransaction)
	r.With(auth).Delete("/transactions/{txId}", h.DeleteTransaction)

	r.With(auth).Get("/balance/{walletAddress}", h.Balance)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, http.StatusNotFound, "route not found")
	})

	return r
}
