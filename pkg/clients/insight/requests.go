package insight

import (
	"context"
	"net/http"

	"insight-web/pkg/models"
)

// CreateRequest posts a lead. Any 2xx counts as accepted and the response
// body is ignored.
func (c *clientImpl) CreateRequest(ctx context.Context, lead models.LeadPayload) error {
	return c.call(ctx, http.MethodPost, "/requests", "", lead, nil)
}

func (c *clientImpl) ListRequests(ctx context.Context, token string) ([]models.LeadRequest, error) {
	var out []models.LeadRequest
	if err := c.call(ctx, http.MethodGet, "/requests", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
