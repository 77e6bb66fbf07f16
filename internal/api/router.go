package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Ad4rshS/am-zone/internal/auth"
)

// NewRouter wires all storefront routes. Mutating catalog routes are
// admin-gated; wishlist and profile routes need only a signed-in user.
func NewRouter(h *Handlers, authSvc *auth.Service) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", h.Signup)
		r.Post("/auth/signin", h.Signin)

		r.Group(func(r chi.Router) {
			r.Use(authSvc.Authenticator)
			r.Get("/auth/me", h.Me)

			r.Get("/me/wishlist", h.GetWishlist)
			r.Post("/me/wishlist", h.AddToWishlist)
			r.Delete("/me/wishlist/{productId}", h.RemoveFromWishlist)
		})

		r.Get("/products", h.ListProducts)
		r.Get("/banners", h.ListBanners)

		r.Group(func(r chi.Router) {
			r.Use(authSvc.Authenticator)
			r.Use(auth.RequireAdmin)

			r.Post("/products/fetch", h.FetchProduct)
			r.Post("/products", h.CreateProduct)
			r.Put("/products/{id}", h.UpdateProduct)
			r.Delete("/products/{id}", h.DeleteProduct)

			r.Post("/banners", h.CreateBanner)
			r.Put("/banners/{id}", h.UpdateBanner)
			r.Delete("/banners/{id}", h.DeleteBanner)
		})
	})

	return r
}
