package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/emaquis/maquis/pkg/domain"
)

// ListGlobalProducts fetches a page of the shared catalogue.
func (c *Client) ListGlobalProducts(ctx context.Context, page, size int) (*domain.GlobalProductPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	var pg domain.GlobalProductPage
	if err := c.get(ctx, "/produitglobal?"+params.Encode(), &pg); err != nil {
		return nil, fmt.Errorf("client.ListGlobalProducts: %w", err)
	}
	return &pg, nil
}

// CreateGlobalProduct adds a catalogue entry. Sent as a multipart form
// because of the optional image.
func (c *Client) CreateGlobalProduct(ctx context.Context, in domain.GlobalProductInput) (*domain.GlobalProduct, error) {
	var created domain.GlobalProduct
	if err := c.doMultipart(ctx, http.MethodPost, "/produitglobal", in, &created); err != nil {
		return nil, fmt.Errorf("client.CreateGlobalProduct: %w", err)
	}
	return &created, nil
}

// UpdateGlobalProduct saves changes to a catalogue entry.
func (c *Client) UpdateGlobalProduct(ctx context.Context, productID string, in domain.GlobalProductInput) (*domain.GlobalProduct, error) {
	var updated domain.GlobalProduct
	if err := c.doMultipart(ctx, http.MethodPut, "/produitglobal/"+url.PathEscape(productID), in, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateGlobalProduct: %w", err)
	}
	return &updated, nil
}

// DeleteGlobalProduct removes a catalogue entry.
func (c *Client) DeleteGlobalProduct(ctx context.Context, productID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/produitglobal/"+url.PathEscape(productID), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteGlobalProduct: %w", err)
	}
	return nil
}

func (c *Client) doMultipart(ctx context.Context, method, path string, in domain.GlobalProductInput, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":       in.Name,
		"categorie":  in.Categorie,
		"country":    in.Country,
		"brand":      in.Brand,
		"hasFormula": strconv.FormatBool(in.HasFormula),
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.WineType != "" {
		fields["wineType"] = in.WineType
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if len(in.Image) > 0 {
		name := in.ImageName
		if name == "" {
			name = "image"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(in.Image); err != nil {
			return fmt.Errorf("write image part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}
