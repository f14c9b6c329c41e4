package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/foodcart-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса фудкарт.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/banners", h.Banners)
		r.Get("/products", h.ListProducts)

		r.Get("/orders", h.ListOrders)
		r.Post("/orders", h.RegisterOrder)
		r.Get("/orders/{orderID}/restaurants", h.AvailableRestaurants)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
