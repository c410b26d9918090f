package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"insight-web/pkg/clients/insight"
	"insight-web/pkg/services"
	"insight-web/pkg/session"
)

// Handlers contains all HTTP handlers for the site
type Handlers struct {
	storefront services.StorefrontService
	leadForms  *services.LeadFormRegistry
	sessions   *session.Store
	logger     *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	storefront services.StorefrontService,
	leadForms *services.LeadFormRegistry,
	sessions *session.Store,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		storefront: storefront,
		leadForms:  leadForms,
		sessions:   sessions,
		logger:     logger,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"lead_forms": h.leadForms.Len(),
	})
}

// upstreamStatus maps an Insight API failure to the status we answer with
func upstreamStatus(err error) int {
	var apiErr *insight.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
