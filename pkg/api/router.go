package api

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"insight-web/pkg/middleware"
)

// RouterConfig is what the router needs besides the handlers
type RouterConfig struct {
	Templates     *template.Template
	CORSOrigins   []string
	SecureCookies bool
	Logger        *zap.Logger
}

// NewRouter registers every route of the site
func NewRouter(h *Handlers, cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.SetHTMLTemplate(cfg.Templates)

	router.GET("/health", h.HealthCheck)

	site := router.Group("/", middleware.Visitor(cfg.SecureCookies))
	site.GET("/", h.Landing)
	site.GET("/catalog/:id", h.Catalog)

	lead := site.Group("/lead")
	lead.GET("", h.GetLeadForm)
	lead.PATCH("", h.UpdateLeadForm)
	lead.POST("/open", h.OpenLeadForm)
	lead.POST("/submit", h.SubmitLeadForm)
	lead.POST("/close", h.CloseLeadForm)

	router.GET("/admin/login", h.LoginPage)
	router.POST("/admin/login", h.Login)
	router.POST("/admin/logout", h.Logout)

	admin := router.Group("/admin", middleware.RequireAdmin(h.sessions))
	admin.GET("", h.Dashboard)
	admin.POST("/catalogs", h.SaveCatalog)
	admin.POST("/catalogs/:id", h.SaveCatalog)
	admin.POST("/catalogs/:id/delete", h.DeleteCatalog)
	admin.POST("/products", h.SaveProduct)
	admin.POST("/products/:id", h.SaveProduct)
	admin.POST("/products/:id/delete", h.DeleteProduct)

	return router
}
