package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"insight-web/pkg/catalog"
	"insight-web/pkg/clients/insight"
	"insight-web/pkg/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidForm        = errors.New("invalid form")
)

// CatalogPage is everything the public catalog screen needs
type CatalogPage struct {
	Catalog  models.Catalog
	Products catalog.Page[models.Product]
}

// DashboardQuery narrows the admin lists. Requests matches lead name, phone
// or date; Products matches product titles.
type DashboardQuery struct {
	Requests string
	Products string
}

// Dashboard is everything the admin screen needs
type Dashboard struct {
	Catalogs     []models.Catalog
	Products     []models.Product
	Requests     []models.LeadRequest
	Query        string
	ProductQuery string
}

// StorefrontService defines the read and admin operations of the site
type StorefrontService interface {
	Landing(ctx context.Context) ([]models.Catalog, error)
	CatalogPage(ctx context.Context, id uuid.UUID, page int) (CatalogPage, error)

	Login(ctx context.Context, username, password string) (string, error)
	Dashboard(ctx context.Context, token string, query DashboardQuery) (Dashboard, error)

	SaveCatalog(ctx context.Context, token string, id *uuid.UUID, form models.CatalogForm) (models.Catalog, error)
	DeleteCatalog(ctx context.Context, token string, id uuid.UUID) error
	SaveProduct(ctx context.Context, token string, id *uuid.UUID, form models.ProductForm) (models.Product, error)
	DeleteProduct(ctx context.Context, token string, id uuid.UUID) error
}

type storefrontServiceImpl struct {
	client   insight.Client
	pageSize int
	location *time.Location
	logger   *zap.Logger
}

// NewStorefrontService creates the storefront service
func NewStorefrontService(client insight.Client, pageSize int, location *time.Location, logger *zap.Logger) StorefrontService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &storefrontServiceImpl{
		client:   client,
		pageSize: pageSize,
		location: location,
		logger:   logger,
	}
}

func (s *storefrontServiceImpl) Landing(ctx context.Context) ([]models.Catalog, error) {
	catalogs, err := s.client.ListCatalogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	return catalogs, nil
}

func (s *storefrontServiceImpl) CatalogPage(ctx context.Context, id uuid.UUID, page int) (CatalogPage, error) {
	var (
		wg          sync.WaitGroup
		cat         models.Catalog
		products    []models.Product
		catErr      error
		productsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cat, catErr = s.client.GetCatalog(ctx, id)
	}()
	go func() {
		defer wg.Done()
		products, productsErr = s.client.ListProducts(ctx, &id)
	}()
	wg.Wait()

	if catErr != nil {
		return CatalogPage{}, fmt.Errorf("load catalog %s: %w", id, catErr)
	}
	if productsErr != nil {
		return CatalogPage{}, fmt.Errorf("load products of %s: %w", id, productsErr)
	}
	return CatalogPage{
		Catalog:  cat,
		Products: catalog.Paginate(products, page, s.pageSize),
	}, nil
}

func (s *storefrontServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	token, err := s.client.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		var apiErr *insight.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}
	s.logger.Info("admin logged in", zap.String("username", strings.TrimSpace(username)))
	return token.AccessToken, nil
}

// Dashboard loads the three admin lists in parallel. Leads come newest first;
// leads and products are narrowed down by query.
func (s *storefrontServiceImpl) Dashboard(ctx context.Context, token string, query DashboardQuery) (Dashboard, error) {
	d := Dashboard{
		Query:        strings.TrimSpace(query.Requests),
		ProductQuery: strings.TrimSpace(query.Products),
	}
	var (
		wg                                   sync.WaitGroup
		productsErr, catalogsErr, requestErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		d.Products, productsErr = s.client.ListProducts(ctx, nil)
	}()
	go func() {
		defer wg.Done()
		d.Catalogs, catalogsErr = s.client.ListCatalogs(ctx)
	}()
	go func() {
		defer wg.Done()
		d.Requests, requestErr = s.client.ListRequests(ctx, token)
	}()
	wg.Wait()

	// a dead token wins over any other failure so the caller can log out
	if requestErr != nil {
		return Dashboard{}, fmt.Errorf("load requests: %w", requestErr)
	}
	if productsErr != nil {
		return Dashboard{}, fmt.Errorf("load products: %w", productsErr)
	}
	if catalogsErr != nil {
		return Dashboard{}, fmt.Errorf("load catalogs: %w", catalogsErr)
	}

	catalog.SortRequestsNewestFirst(d.Requests)
	d.Requests = catalog.FilterRequests(d.Requests, d.Query, s.location)
	d.Products = catalog.FilterProducts(d.Products, d.ProductQuery)
	return d, nil
}

func (s *storefrontServiceImpl) SaveCatalog(ctx context.Context, token string, id *uuid.UUID, form models.CatalogForm) (models.Catalog, error) {
	if strings.TrimSpace(form.Name) == "" {
		return models.Catalog{}, fmt.Errorf("%w: catalog name is required", ErrInvalidForm)
	}
	if id == nil {
		return s.client.CreateCatalog(ctx, token, form)
	}
	return s.client.UpdateCatalog(ctx, token, *id, form)
}

func (s *storefrontServiceImpl) DeleteCatalog(ctx context.Context, token string, id uuid.UUID) error {
	if err := s.client.DeleteCatalog(ctx, token, id); err != nil {
		return err
	}
	s.logger.Info("catalog deleted", zap.String("id", id.String()))
	return nil
}

func (s *storefrontServiceImpl) SaveProduct(ctx context.Context, token string, id *uuid.UUID, form models.ProductForm) (models.Product, error) {
	if strings.TrimSpace(form.Title) == "" || strings.TrimSpace(form.Price) == "" {
		return models.Product{}, fmt.Errorf("%w: product title and price are required", ErrInvalidForm)
	}
	if c := strings.TrimSpace(form.CatalogID); c != "" {
		if _, err := uuid.Parse(c); err != nil {
			return models.Product{}, fmt.Errorf("%w: catalog id %q", ErrInvalidForm, c)
		}
	}
	if id == nil {
		return s.client.CreateProduct(ctx, token, form)
	}
	return s.client.UpdateProduct(ctx, token, *id, form)
}

func (s *storefrontServiceImpl) DeleteProduct(ctx context.Context, token string, id uuid.UUID) error {
	if err := s.client.DeleteProduct(ctx, token, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("id", id.String()))
	return nil
}
