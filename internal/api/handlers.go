package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ad4rshS/am-zone/internal/auth"
	"github.com/Ad4rshS/am-zone/internal/events"
	"github.com/Ad4rshS/am-zone/internal/models"
	"github.com/Ad4rshS/am-zone/internal/scraper"
	"github.com/Ad4rshS/am-zone/internal/store"
)

type Handlers struct {
	store     *store.Store
	auth      *auth.Service
	scraper   *scraper.Service
	publisher *events.Publisher
	logger    *slog.Logger
}

func NewHandlers(st *store.Store, authSvc *auth.Service, scraperSvc *scraper.Service, publisher *events.Publisher, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:     st,
		auth:      authSvc,
		scraper:   scraperSvc,
		publisher: publisher,
		logger:    logger.With("component", "api"),
	}
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest is the body of POST /api/auth/signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a fresh token and the public user record.
type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "name, email, password required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := h.store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			h.respondError(w, http.StatusConflict, "Email already registered")
			return
		}
		h.logger.Error("failed to create user", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	token, err := h.auth.SignToken(user)
	if err != nil {
		h.logger.Error("failed to sign token", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.respondJSON(w, http.StatusOK, AuthResponse{Token: token, User: user.Public()})
}

func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "email, password required")
		return
	}

	user, ok := h.store.FindUserByEmail(req.Email)
	if !ok || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.auth.SignToken(user)
	if err != nil {
		h.logger.Error("failed to sign token", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	h.respondJSON(w, http.StatusOK, AuthResponse{Token: token, User: user.Public()})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	user, ok := h.store.GetUser(claims.UserID)
	if !ok {
		h.respondError(w, http.StatusNotFound, "Not found")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]models.PublicUser{"user": user.Public()})
}

// FetchProductRequest is the body of the admin extraction endpoint.
type FetchProductRequest struct {
	SourceURL string `json:"sourceUrl"`
}

// FetchProduct runs the extraction pipeline against a third-party product
// page. Internal failure detail never reaches the client.
func (h *Handlers) FetchProduct(w http.ResponseWriter, r *http.Request) {
	var req FetchProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SourceURL == "" {
		h.respondError(w, http.StatusBadRequest, "sourceUrl required")
		return
	}

	product, err := h.scraper.FetchProduct(r.Context(), req.SourceURL)
	if err != nil {
		h.logger.Error("product extraction failed", "url", req.SourceURL, "error", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to fetch product details")
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.store.ListProducts())
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product.ID = ""
	if err := h.store.CreateProduct(&product); err != nil {
		h.logger.Error("failed to create product", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.publishEvent(events.EventTypeProductCreated, &product)
	h.respondJSON(w, http.StatusOK, map[string]string{"id": product.ID})
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.UpdateProduct(id, &product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("failed to update product", "id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	product.ID = id
	h.publishEvent(events.EventTypeProductUpdated, &product)
	h.respondOK(w)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteProduct(id); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("failed to delete product", "id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.publishEvent(events.EventTypeProductDeleted, &models.Product{ID: id})
	h.respondOK(w)
}

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	h.respondJSON(w, http.StatusOK, h.store.WishlistProducts(claims.UserID))
}

// WishlistRequest is the body of POST /api/me/wishlist.
type WishlistRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req WishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		h.respondError(w, http.StatusBadRequest, "productId required")
		return
	}

	claims, _ := auth.FromContext(r.Context())
	if err := h.store.AddToWishlist(claims.UserID, req.ProductID); err != nil {
		h.logger.Error("failed to add to wishlist", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to update wishlist")
		return
	}
	h.respondOK(w)
}

func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	claims, _ := auth.FromContext(r.Context())
	if err := h.store.RemoveFromWishlist(claims.UserID, productID); err != nil {
		h.logger.Error("failed to remove from wishlist", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to update wishlist")
		return
	}
	h.respondOK(w)
}

func (h *Handlers) ListBanners(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.store.ListBanners())
}

func (h *Handlers) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var banner models.Banner
	if err := json.NewDecoder(r.Body).Decode(&banner); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	banner.ID = ""
	if err := h.store.CreateBanner(&banner); err != nil {
		h.logger.Error("failed to create banner", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to create banner")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"id": banner.ID})
}

func (h *Handlers) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var banner models.Banner
	if err := json.NewDecoder(r.Body).Decode(&banner); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.UpdateBanner(id, &banner); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("failed to update banner", "id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to update banner")
		return
	}
	h.respondOK(w)
}

func (h *Handlers) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteBanner(id); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("failed to delete banner", "id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to delete banner")
		return
	}
	h.respondOK(w)
}

// Health reports service status and outbox depth.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	pending := h.store.PendingEventCount()
	deadLetter := h.store.DeadLetterCount()

	health := map[string]any{
		"status": "ok",
		"outbox": map[string]any{
			"pending":     pending,
			"dead_letter": deadLetter,
		},
	}

	status := http.StatusOK
	if deadLetter > 100 {
		health["status"] = "error"
		status = http.StatusServiceUnavailable
	} else if pending > 1000 {
		health["status"] = "warning"
	}

	h.respondJSON(w, status, health)
}

// publishEvent stages a catalog event; staging failure is logged, never
// surfaced to the client.
func (h *Handlers) publishEvent(eventType events.EventType, product *models.Product) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishProductEvent(eventType, product); err != nil {
		h.logger.Error("failed to stage event",
			"event_type", eventType,
			"product_id", product.ID,
			"error", err)
	}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func (h *Handlers) respondOK(w http.ResponseWriter) {
	h.respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
