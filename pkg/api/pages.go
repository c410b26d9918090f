package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"insight-web/pkg/models"
	"insight-web/pkg/services"
)

type landingView struct {
	Catalogs []models.Catalog
	Error    string
}

type catalogView struct {
	services.CatalogPage
	Error string
}

// Landing renders the home page with the catalog list and the lead form
func (h *Handlers) Landing(c *gin.Context) {
	view := landingView{}
	catalogs, err := h.storefront.Landing(c.Request.Context())
	if err != nil {
		h.logger.Warn("landing catalogs", zap.Error(err))
		view.Error = "Не удалось загрузить каталоги"
	}
	view.Catalogs = catalogs
	c.HTML(http.StatusOK, "landing", view)
}

// Catalog renders one catalog with a page of its products
func (h *Handlers) Catalog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "catalog", catalogView{Error: "Каталог не найден"})
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))

	cp, err := h.storefront.CatalogPage(c.Request.Context(), id, page)
	if err != nil {
		status := upstreamStatus(err)
		msg := "Не удалось загрузить товары"
		if status == http.StatusNotFound {
			msg = "Каталог не найден"
		}
		h.logger.Warn("catalog page", zap.String("id", id.String()), zap.Error(err))
		c.HTML(status, "catalog", catalogView{Error: msg})
		return
	}
	c.HTML(http.StatusOK, "catalog", catalogView{CatalogPage: cp})
}
