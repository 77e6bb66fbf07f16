package models

import (
	"time"
)

// Variants holds the selectable attribute dimensions of a product.
type Variants struct {
	Colors  []string `json:"colors"`
	RAM     []string `json:"ram"`
	Storage []string `json:"storage"`
}

// ExtractedProduct is the output of the extraction pipeline. Fields that no
// strategy matched stay at their zero value (rating defaults to 4.5), so the
// record is always structurally valid even when mostly empty.
type ExtractedProduct struct {
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Price       int      `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Variants    Variants `json:"variants"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
}

// Product is a catalog entry as stored in the document store.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Price       int      `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Variants    Variants `json:"variants"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	Category    string   `json:"category,omitempty"`
	SourceURL   string   `json:"sourceUrl,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Banner is a hero banner shown on the storefront.
type Banner struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image"`
	Link     string `json:"link,omitempty"`
	Active   bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. PasswordHash never leaves the store layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the wire representation of a user.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public strips credentials from a user record.
func (u *User) Public() PublicUser {
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  role,
	}
}

// UserData is the per-user container for wishlist and cart product IDs.
type UserData struct {
	UserID   string   `json:"userId"`
	Wishlist []string `json:"wishlist"`
	Cart     []string `json:"cart"`
}

// NewProductFromExtraction builds a catalog record from pipeline output.
func NewProductFromExtraction(id string, e *ExtractedProduct, sourceURL string) *Product {
	now := time.Now()
	return &Product{
		ID:          id,
		Name:        e.Name,
		Image:       e.Image,
		Images:      e.Images,
		Price:       e.Price,
		Description: e.Description,
		Features:    e.Features,
		Variants:    e.Variants,
		Rating:      e.Rating,
		Reviews:     e.Reviews,
		SourceURL:   sourceURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
