// Package store implements the single-file JSON document store backing the
// storefront: users, products, banners, per-user data, and the event outbox
// all live in one file that is rewritten atomically on every mutation.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ad4rshS/am-zone/internal/models"
)

type documents struct {
	Users    []*models.User     `json:"users"`
	Products []*models.Product  `json:"products"`
	Banners  []*models.Banner   `json:"banners"`
	UserData []*models.UserData `json:"userData"`
	Outbox   []*OutboxEvent     `json:"outbox"`
}

// Store is a document store persisted to a single JSON file. All access goes
// through an RWMutex; writes land via temp-file + rename so a crash never
// leaves a half-written file behind.
type Store struct {
	mu       sync.RWMutex
	filename string
	docs     documents
}

// Open loads the store from filename, creating an empty one if the file does
// not exist yet.
func Open(filename string) (*Store, error) {
	s := &Store{filename: filename}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filename)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &s.docs); err != nil {
		return fmt.Errorf("failed to parse store file %s: %w", s.filename, err)
	}
	return nil
}

// save persists the current state. Callers must hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(&s.docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmp := s.filename + ".tmp"
	if dir := filepath.Dir(s.filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, s.filename); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// --- Users ---

// FindUserByEmail matches case-insensitively, as sign-in does.
func (s *Store) FindUserByEmail(email string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.docs.Users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, true
		}
	}
	return nil, false
}

func (s *Store) GetUser(id string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.docs.Users {
		if u.ID == id {
			copied := *u
			return &copied, true
		}
	}
	return nil, false
}

// CreateUser adds a user and its per-user data container. The email must not
// already be registered.
func (s *Store) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.docs.Users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.CreatedAt = time.Now()

	copied := *u
	s.docs.Users = append(s.docs.Users, &copied)
	s.ensureUserDataLocked(u.ID)
	return s.save()
}

// SeedAdmin creates the admin account unless a user with that email already
// exists.
func (s *Store) SeedAdmin(name, email, passwordHash string) error {
	if _, ok := s.FindUserByEmail(email); ok {
		return nil
	}
	return s.CreateUser(&models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	})
}

// ensureUserDataLocked returns the per-user container, creating it for
// accounts predating the userData collection. Callers hold the write lock.
func (s *Store) ensureUserDataLocked(userID string) *models.UserData {
	for _, ud := range s.docs.UserData {
		if ud.UserID == userID {
			return ud
		}
	}
	ud := &models.UserData{UserID: userID, Wishlist: []string{}, Cart: []string{}}
	s.docs.UserData = append(s.docs.UserData, ud)
	return ud
}

// --- Products ---

func (s *Store) ListProducts() []*models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Product, 0, len(s.docs.Products))
	for _, p := range s.docs.Products {
		copied := *p
		out = append(out, &copied)
	}
	return out
}

func (s *Store) GetProduct(id string) (*models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.docs.Products {
		if p.ID == id {
			copied := *p
			return &copied, true
		}
	}
	return nil, false
}

func (s *Store) CreateProduct(p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	copied := *p
	s.docs.Products = append(s.docs.Products, &copied)
	return s.save()
}

// UpdateProduct replaces the stored fields of product id with upd, keeping
// the original ID and creation time.
func (s *Store) UpdateProduct(id string, upd *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.docs.Products {
		if p.ID != id {
			continue
		}
		copied := *upd
		copied.ID = id
		copied.CreatedAt = p.CreatedAt
		copied.UpdatedAt = time.Now()
		s.docs.Products[i] = &copied
		return s.save()
	}
	return ErrNotFound
}

func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.docs.Products {
		if p.ID == id {
			s.docs.Products = append(s.docs.Products[:i], s.docs.Products[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

// --- Banners ---

func (s *Store) ListBanners() []*models.Banner {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Banner, 0, len(s.docs.Banners))
	for _, b := range s.docs.Banners {
		copied := *b
		out = append(out, &copied)
	}
	return out
}

func (s *Store) CreateBanner(b *models.Banner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	copied := *b
	s.docs.Banners = append(s.docs.Banners, &copied)
	return s.save()
}

func (s *Store) UpdateBanner(id string, upd *models.Banner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.docs.Banners {
		if b.ID != id {
			continue
		}
		copied := *upd
		copied.ID = id
		copied.CreatedAt = b.CreatedAt
		copied.UpdatedAt = time.Now()
		s.docs.Banners[i] = &copied
		return s.save()
	}
	return ErrNotFound
}

func (s *Store) DeleteBanner(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.docs.Banners {
		if b.ID == id {
			s.docs.Banners = append(s.docs.Banners[:i], s.docs.Banners[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

// --- Wishlist ---

// WishlistProducts returns the catalog entries on the user's wishlist.
func (s *Store) WishlistProducts(userID string) []*models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool)
	for _, ud := range s.docs.UserData {
		if ud.UserID == userID {
			for _, id := range ud.Wishlist {
				wanted[id] = true
			}
		}
	}

	out := make([]*models.Product, 0)
	for _, p := range s.docs.Products {
		if wanted[p.ID] {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out
}

func (s *Store) AddToWishlist(userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ud := s.ensureUserDataLocked(userID)
	for _, id := range ud.Wishlist {
		if id == productID {
			return nil
		}
	}
	ud.Wishlist = append(ud.Wishlist, productID)
	return s.save()
}

func (s *Store) RemoveFromWishlist(userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ud := s.ensureUserDataLocked(userID)
	kept := ud.Wishlist[:0]
	for _, id := range ud.Wishlist {
		if id != productID {
			kept = append(kept, id)
		}
	}
	ud.Wishlist = kept
	return s.save()
}
