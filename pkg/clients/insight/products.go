package insight

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"insight-web/pkg/models"
)

// ListProducts returns every product, or only those of one catalog when
// catalogID is set.
func (c *clientImpl) ListProducts(ctx context.Context, catalogID *uuid.UUID) ([]models.Product, error) {
	path := "/products"
	if catalogID != nil {
		q := url.Values{}
		q.Set("catalog_id", catalogID.String())
		path += "?" + q.Encode()
	}
	var out []models.Product
	if err := c.call(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientImpl) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var out models.Product
	if err := c.call(ctx, http.MethodGet, "/products/"+id.String(), "", nil, &out); err != nil {
		return models.Product{}, err
	}
	return out, nil
}

func (c *clientImpl) CreateProduct(ctx context.Context, token string, form models.ProductForm) (models.Product, error) {
	var out models.Product
	if err := c.call(ctx, http.MethodPost, "/products", token, productValues(form), &out); err != nil {
		return models.Product{}, err
	}
	return out, nil
}

func (c *clientImpl) UpdateProduct(ctx context.Context, token string, id uuid.UUID, form models.ProductForm) (models.Product, error) {
	var out models.Product
	if err := c.call(ctx, http.MethodPut, "/products/"+id.String(), token, productValues(form), &out); err != nil {
		return models.Product{}, err
	}
	return out, nil
}

func (c *clientImpl) DeleteProduct(ctx context.Context, token string, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/products/"+id.String(), token, nil, nil)
}

// productValues mirrors what the admin panel has always sent: an empty
// quantity becomes "0" and blank optional fields are left out.
func productValues(form models.ProductForm) url.Values {
	v := url.Values{}
	v.Set("title", strings.TrimSpace(form.Title))
	v.Set("price", strings.TrimSpace(form.Price))

	quantity := strings.TrimSpace(form.Quantity)
	if quantity == "" {
		quantity = "0"
	}
	v.Set("quantity", quantity)

	if d := strings.TrimSpace(form.Description); d != "" {
		v.Set("description", d)
	}
	if id := strings.TrimSpace(form.CatalogID); id != "" {
		v.Set("catalog_id", id)
	}
	return v
}
