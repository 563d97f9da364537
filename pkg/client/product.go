package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/emaquis/maquis/pkg/domain"
)

type productList struct {
	Data []domain.Product `json:"data"`
}

// ListProducts fetches a page of the gestionnaire's stock.
func (c *Client) ListProducts(ctx context.Context, page, size int) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	var list productList
	if err := c.get(ctx, "/produit?"+params.Encode(), &list); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return list.Data, nil
}

// ListProductsByCategory fetches a page of stock restricted to one category.
func (c *Client) ListProductsByCategory(ctx context.Context, categoryID string, page, size int) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("category", categoryID)
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	var list productList
	if err := c.get(ctx, "/produit?"+params.Encode(), &list); err != nil {
		return nil, fmt.Errorf("client.ListProductsByCategory: %w", err)
	}
	return list.Data, nil
}

// HistoryPage is a page of stock movements with its meta.
type HistoryPage struct {
	Data []domain.StockEntry `json:"data"`
	Meta domain.PageMeta     `json:"meta"`
}

// ProductHistory fetches a product's stock movement history.
func (c *Client) ProductHistory(ctx context.Context, productID string, page, size int) (*HistoryPage, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("client.ProductHistory: product id is required")
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	var hist HistoryPage
	if err := c.get(ctx, "/produit/"+url.PathEscape(productID)+"/history?"+params.Encode(), &hist); err != nil {
		return nil, fmt.Errorf("client.ProductHistory: %w", err)
	}
	return &hist, nil
}

// CreateProduct adds a product to the stock. The input is validated
// client-side first; the session reference in particular must be a real
// ObjectId or the API answers with an opaque 400.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	var created domain.Product
	if err := c.post(ctx, "/produit", in, &created); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	return &created, nil
}

// UpdateProduct saves changes to an existing product.
func (c *Client) UpdateProduct(ctx context.Context, productID string, in domain.ProductInput) (*domain.Product, error) {
	var updated domain.Product
	if err := c.put(ctx, "/produit/"+url.PathEscape(productID), in, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateProduct: %w", err)
	}
	return &updated, nil
}

// DeleteProduct removes a product from the stock.
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/produit/"+url.PathEscape(productID), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteProduct: %w", err)
	}
	return nil
}
