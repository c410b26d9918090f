package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"insight-web/pkg/clients/insight"
	"insight-web/pkg/middleware"
	"insight-web/pkg/models"
	"insight-web/pkg/services"
)

type loginView struct {
	Username string
	Error    string
}

type dashboardView struct {
	services.Dashboard
	Error string
}

// LoginPage shows the admin login form, or skips it for a logged-in admin
func (h *Handlers) LoginPage(c *gin.Context) {
	if h.sessions.Load(c.Request).Authenticated() {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.HTML(http.StatusOK, "login", loginView{})
}

// Login exchanges the credentials for an API token and keeps it in the session
func (h *Handlers) Login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login", loginView{Username: form.Username, Error: "Введите логин и пароль"})
		return
	}

	token, err := h.storefront.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.HTML(http.StatusUnauthorized, "login", loginView{Username: form.Username, Error: "Неверный логин или пароль"})
			return
		}
		h.logger.Error("admin login", zap.Error(err))
		c.HTML(http.StatusBadGateway, "login", loginView{Username: form.Username, Error: "Ошибка авторизации, попробуйте ещё раз"})
		return
	}

	if err := h.sessions.Save(c.Writer, c.Request, token); err != nil {
		h.logger.Error("save session", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login", loginView{Username: form.Username, Error: "Ошибка авторизации, попробуйте ещё раз"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout forgets the token
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.sessions.Clear(c.Writer, c.Request); err != nil {
		h.logger.Warn("clear session", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

// Dashboard lists catalogs, products and leads
func (h *Handlers) Dashboard(c *gin.Context) {
	query := services.DashboardQuery{Requests: c.Query("q"), Products: c.Query("pq")}
	d, err := h.storefront.Dashboard(c.Request.Context(), c.GetString(middleware.TokenKey), query)
	if err != nil {
		if h.dropDeadSession(c, err) {
			return
		}
		h.logger.Error("dashboard", zap.Error(err))
		c.HTML(http.StatusBadGateway, "admin", dashboardView{Error: "Ошибка загрузки данных"})
		return
	}
	c.HTML(http.StatusOK, "admin", dashboardView{Dashboard: d, Error: c.Query("error")})
}

// SaveCatalog creates a catalog, or updates it when the route carries an id
func (h *Handlers) SaveCatalog(c *gin.Context) {
	id, ok := h.optionalID(c)
	if !ok {
		return
	}
	var form models.CatalogForm
	if err := c.ShouldBind(&form); err != nil {
		h.backToDashboard(c, "Введите название каталога")
		return
	}
	if _, err := h.storefront.SaveCatalog(c.Request.Context(), c.GetString(middleware.TokenKey), id, form); err != nil {
		h.adminFailure(c, err, "Не удалось сохранить каталог")
		return
	}
	h.backToDashboard(c, "")
}

func (h *Handlers) DeleteCatalog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.backToDashboard(c, "Каталог не найден")
		return
	}
	if err := h.storefront.DeleteCatalog(c.Request.Context(), c.GetString(middleware.TokenKey), id); err != nil {
		h.adminFailure(c, err, "Не удалось удалить каталог")
		return
	}
	h.backToDashboard(c, "")
}

// SaveProduct creates a product, or updates it when the route carries an id
func (h *Handlers) SaveProduct(c *gin.Context) {
	id, ok := h.optionalID(c)
	if !ok {
		return
	}
	var form models.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		h.backToDashboard(c, "Введите название и цену товара")
		return
	}
	if _, err := h.storefront.SaveProduct(c.Request.Context(), c.GetString(middleware.TokenKey), id, form); err != nil {
		h.adminFailure(c, err, "Не удалось сохранить товар")
		return
	}
	h.backToDashboard(c, "")
}

func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.backToDashboard(c, "Товар не найден")
		return
	}
	if err := h.storefront.DeleteProduct(c.Request.Context(), c.GetString(middleware.TokenKey), id); err != nil {
		h.adminFailure(c, err, "Не удалось удалить товар")
		return
	}
	h.backToDashboard(c, "")
}

func (h *Handlers) optionalID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Param("id")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.backToDashboard(c, "Запись не найдена")
		return nil, false
	}
	return &id, true
}

func (h *Handlers) adminFailure(c *gin.Context, err error, msg string) {
	if h.dropDeadSession(c, err) {
		return
	}
	_ = c.Error(err)
	h.logger.Warn("admin action", zap.String("path", c.Request.URL.Path), zap.Error(err))
	h.backToDashboard(c, msg)
}

// dropDeadSession logs the admin out when the API no longer accepts the token
func (h *Handlers) dropDeadSession(c *gin.Context, err error) bool {
	if !errors.Is(err, insight.ErrUnauthorized) {
		return false
	}
	if cerr := h.sessions.Clear(c.Writer, c.Request); cerr != nil {
		h.logger.Warn("clear session", zap.Error(cerr))
	}
	c.Redirect(http.StatusSeeOther, "/admin/login")
	return true
}

func (h *Handlers) backToDashboard(c *gin.Context, errMsg string) {
	target := "/admin"
	if errMsg != "" {
		target += "?" + url.Values{"error": {errMsg}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}
