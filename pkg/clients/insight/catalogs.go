package insight

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"insight-web/pkg/models"
)

func (c *clientImpl) ListCatalogs(ctx context.Context) ([]models.Catalog, error) {
	var out []models.Catalog
	if err := c.call(ctx, http.MethodGet, "/catalogs", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientImpl) GetCatalog(ctx context.Context, id uuid.UUID) (models.Catalog, error) {
	var out models.Catalog
	if err := c.call(ctx, http.MethodGet, "/catalogs/"+id.String(), "", nil, &out); err != nil {
		return models.Catalog{}, err
	}
	return out, nil
}

func (c *clientImpl) CreateCatalog(ctx context.Context, token string, form models.CatalogForm) (models.Catalog, error) {
	var out models.Catalog
	if err := c.call(ctx, http.MethodPost, "/catalogs", token, catalogValues(form), &out); err != nil {
		return models.Catalog{}, err
	}
	return out, nil
}

func (c *clientImpl) UpdateCatalog(ctx context.Context, token string, id uuid.UUID, form models.CatalogForm) (models.Catalog, error) {
	var out models.Catalog
	if err := c.call(ctx, http.MethodPut, "/catalogs/"+id.String(), token, catalogValues(form), &out); err != nil {
		return models.Catalog{}, err
	}
	return out, nil
}

func (c *clientImpl) DeleteCatalog(ctx context.Context, token string, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/catalogs/"+id.String(), token, nil, nil)
}

func catalogValues(form models.CatalogForm) url.Values {
	v := url.Values{}
	v.Set("name", strings.TrimSpace(form.Name))
	return v
}
