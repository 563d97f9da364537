package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category is a product category. The API is inconsistent about its shape:
// list endpoints may return a plain string or an embedded {id, name} object
// depending on whether the reference was populated server-side.
type Category struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both the string form and the object form.
func (c *Category) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.ID = ""
		c.Name = s
		return nil
	}
	type alias Category
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Category(a)
	return nil
}

// MarshalJSON always emits the string form, which is what write endpoints expect.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Name)
}

// Product is one stock line of the gestionnaire's inventory.
type Product struct {
	MongoID   string    `json:"_id,omitempty"`
	AltID     string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Quantity  *int      `json:"quantity,omitempty"`
	Stock     *int      `json:"stock,omitempty"` // legacy field name, same meaning as Quantity
	Categorie Category  `json:"categorie,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Available bool      `json:"available,omitempty"`
	Session   string    `json:"session,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ObjectID returns the product identifier, whichever field the API filled.
func (p Product) ObjectID() string {
	if p.MongoID != "" {
		return p.MongoID
	}
	return p.AltID
}

// Count returns the stock count, preferring the modern quantity field.
func (p Product) Count() (int, bool) {
	if p.Quantity != nil {
		return *p.Quantity, true
	}
	if p.Stock != nil {
		return *p.Stock, true
	}
	return 0, false
}

// ProductInput is the payload for creating or updating a product.
// Session must reference the current sale session (a Mongo ObjectId).
type ProductInput struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Categorie string  `json:"categorie"`
	Session   string  `json:"session"`
}

// Validate checks the client-side constraints the API would otherwise
// reject with an opaque 400.
func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if !IsObjectID(in.Session) {
		return fmt.Errorf("session must be a 24-character hex ObjectId")
	}
	return nil
}

// IsObjectID reports whether s looks like a Mongo ObjectId.
func IsObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// StockEntry is one line of a product's stock movement history.
type StockEntry struct {
	ID        string    `json:"_id,omitempty"`
	ProductID string    `json:"product,omitempty"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// FilterByName returns the products whose name contains q, case-insensitively.
// An empty query returns the input unchanged.
func FilterByName(products []Product, q string) []Product {
	if q == "" {
		return products
	}
	q = strings.ToLower(q)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategory returns the products whose category name equals name,
// case-insensitively. An empty name returns the input unchanged.
func FilterByCategory(products []Product, name string) []Product {
	if name == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Categorie.Name, name) {
			out = append(out, p)
		}
	}
	return out
}

// CategoryNames extracts the distinct category names present in products,
// in first-seen order. Used to build the stock view's filter cycle.
func CategoryNames(products []Product) []string {
	seen := make(map[string]bool, len(products))
	var names []string
	for _, p := range products {
		name := p.Categorie.Name
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		names = append(names, name)
	}
	return names
}
