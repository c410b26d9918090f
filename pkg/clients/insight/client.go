package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"insight-web/pkg/models"
)

// ErrUnauthorized is returned when the API rejects the bearer token
var ErrUnauthorized = errors.New("insight: unauthorized")

// APIError is returned for any non-2xx response
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error from Insight API: %s %s: %d %s", e.Method, e.Path, e.Status, e.Body)
}

// Is lets callers match a 401 with errors.Is(err, ErrUnauthorized).
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Client defines the interface for interacting with the Insight API
type Client interface {
	CreateRequest(ctx context.Context, lead models.LeadPayload) error
	ListRequests(ctx context.Context, token string) ([]models.LeadRequest, error)

	Login(ctx context.Context, username, password string) (models.Token, error)

	ListCatalogs(ctx context.Context) ([]models.Catalog, error)
	GetCatalog(ctx context.Context, id uuid.UUID) (models.Catalog, error)
	CreateCatalog(ctx context.Context, token string, form models.CatalogForm) (models.Catalog, error)
	UpdateCatalog(ctx context.Context, token string, id uuid.UUID, form models.CatalogForm) (models.Catalog, error)
	DeleteCatalog(ctx context.Context, token string, id uuid.UUID) error

	ListProducts(ctx context.Context, catalogID *uuid.UUID) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error)
	CreateProduct(ctx context.Context, token string, form models.ProductForm) (models.Product, error)
	UpdateProduct(ctx context.Context, token string, id uuid.UUID, form models.ProductForm) (models.Product, error)
	DeleteProduct(ctx context.Context, token string, id uuid.UUID) error
}

type clientImpl struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Insight API client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &clientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// call is a single API round trip. body may be nil, a url.Values (sent as a
// urlencoded form) or anything JSON-encodable. out may be nil.
func (c *clientImpl) call(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("error creating payload: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("insight request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("error calling Insight API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	c.logger.Debug("insight request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}
