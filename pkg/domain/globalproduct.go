package domain

import "time"

// GlobalProduct is an entry of the shared catalogue, independent of any
// gestionnaire's stock. Managed through the /produitglobal endpoints.
type GlobalProduct struct {
	MongoID     string    `json:"_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Categorie   Category  `json:"categorie,omitempty"`
	Country     string    `json:"country,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	WineType    string    `json:"wineType,omitempty"`
	HasFormula  bool      `json:"hasFormula,omitempty"`
	ImageURL    string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// GlobalProductInput is the payload for creating or updating a catalogue
// entry. It is sent as a multipart form because of the optional image.
type GlobalProductInput struct {
	Name        string
	Description string
	Categorie   string
	Country     string
	Brand       string
	WineType    string
	HasFormula  bool
	Image       []byte // optional image content
	ImageName   string // filename for the image part
}

// PageMeta is the pagination envelope the catalogue endpoints return.
type PageMeta struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// GlobalProductPage is a page of catalogue entries with its meta.
type GlobalProductPage struct {
	Data []GlobalProduct `json:"data"`
	Meta PageMeta        `json:"meta"`
}
